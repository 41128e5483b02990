package domain

// CourseOutline is the canonical internal shape of a course after
// normalization: a title, a description, and an ordered list of lessons.
type CourseOutline struct {
	Title       string       `json:"course_title"`
	Description string       `json:"course_description"`
	Lessons     []LessonSpec `json:"lessons"`
}

// LessonSpec describes one lesson to generate.
type LessonSpec struct {
	Title       string   `json:"lesson_title"`
	VideoTitles []string `json:"video_titles"`
}

// GeneratedVideo is one produced video script. ScriptContent is kept inline
// alongside the file path so clients can use it without another fetch.
type GeneratedVideo struct {
	Title         string `json:"title"`
	ScriptFile    string `json:"script_file"`
	ScriptContent string `json:"script_content"`
}

// GeneratedLesson is the output of generating one lesson. It is immutable
// once appended to a job result.
type GeneratedLesson struct {
	Title        string           `json:"lesson_title"`
	Videos       []GeneratedVideo `json:"videos"`
	QuizFile     string           `json:"quiz_file"`
	WorkbookFile string           `json:"workbook_file"`
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Quiz is the quiz.json file shape.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// Course is the course.json shape written into the job directory.
type Course struct {
	Title       string            `json:"course_title"`
	Description string            `json:"course_description"`
	Lessons     []GeneratedLesson `json:"lessons"`
}

// CourseResult is the final payload attached to a done job: the generated
// course plus the archive location and any media assets that succeeded.
type CourseResult struct {
	Course
	Archive    string `json:"zip"`
	ArchiveURL string `json:"zip_url,omitempty"`
	LogoURL    string `json:"logo_url,omitempty"`
	BannerURL  string `json:"banner_url,omitempty"`
}
