package config

// Default values for discover entries.
const (
	DefaultFragmentExt = ".frag"
	DefaultOutputExt   = ".ts"
)

// Config is a parsed project file.
type Config struct {
	// IncludeDirs are searched after each shader's own directory, after any job-level dirs.
	IncludeDirs []string `yaml:"include_dirs,omitempty" toml:"include_dirs,omitempty" json:"include_dirs,omitempty"`

	// ClassName is the default generated class name.
	ClassName string `yaml:"class_name,omitempty" toml:"class_name,omitempty" json:"class_name,omitempty"`

	// Extends is the default base class.
	Extends string `yaml:"extends,omitempty" toml:"extends,omitempty" json:"extends,omitempty"`

	// TransformNames is the default for prefixed field names.
	TransformNames *bool `yaml:"transform_names,omitempty" toml:"transform_names,omitempty" json:"transform_names,omitempty"`

	// Jobs are explicit shader pairs.
	Jobs []Job `yaml:"jobs,omitempty" toml:"jobs,omitempty" json:"jobs,omitempty"`

	// Discover entries expand to jobs by globbing for vertex shaders.
	Discover []Discover `yaml:"discover,omitempty" toml:"discover,omitempty" json:"discover,omitempty"`

	// Path is the file the config was loaded from. Set by Load.
	Path string `yaml:"-" toml:"-" json:"-"`

	// Dir is the base for relative paths. Set by Load.
	Dir string `yaml:"-" toml:"-" json:"-"`
}

// Job is one vertex/fragment pair and its output file.
type Job struct {
	Name           string   `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Vertex         string   `yaml:"vertex" toml:"vertex" json:"vertex"`
	Fragment       string   `yaml:"fragment" toml:"fragment" json:"fragment"`
	Output         string   `yaml:"output" toml:"output" json:"output"`
	ClassName      string   `yaml:"class_name,omitempty" toml:"class_name,omitempty" json:"class_name,omitempty"`
	Extends        string   `yaml:"extends,omitempty" toml:"extends,omitempty" json:"extends,omitempty"`
	TransformNames *bool    `yaml:"transform_names,omitempty" toml:"transform_names,omitempty" json:"transform_names,omitempty"`
	IncludeDirs    []string `yaml:"include_dirs,omitempty" toml:"include_dirs,omitempty" json:"include_dirs,omitempty"`
}

// Discover describes a glob of vertex shaders to generate.
type Discover struct {
	Pattern     string `yaml:"pattern" toml:"pattern" json:"pattern"`
	OutputDir   string `yaml:"output_dir" toml:"output_dir" json:"output_dir"`
	FragmentExt string `yaml:"fragment_ext,omitempty" toml:"fragment_ext,omitempty" json:"fragment_ext,omitempty"`
	OutputExt   string `yaml:"output_ext,omitempty" toml:"output_ext,omitempty" json:"output_ext,omitempty"`
}

func (d Discover) fragmentExt() string {
	if d.FragmentExt == "" {
		return DefaultFragmentExt
	}
	return withDot(d.FragmentExt)
}

func (d Discover) outputExt() string {
	if d.OutputExt == "" {
		return DefaultOutputExt
	}
	return withDot(d.OutputExt)
}

func withDot(ext string) string {
	if ext[0] != '.' {
		return "." + ext
	}
	return ext
}
