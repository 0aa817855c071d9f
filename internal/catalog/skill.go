package catalog

// Skill is a cluster of learning items whose mastery is tracked as one level.
type Skill struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Topic    string `yaml:"topic" json:"topic"`
	Syllabus string `yaml:"syllabus,omitempty" json:"syllabus,omitempty"`
}
