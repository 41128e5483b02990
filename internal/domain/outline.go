package domain

import (
	"encoding/json"
	"fmt"
)

const (
	defaultLessonCount = 5
	defaultVideoCount  = 2
)

// NormalizeOutline canonicalizes the heterogeneous course preview payloads
// accepted at submission into one CourseOutline. Recognized variants, tried
// in order:
//
//  1. a bare JSON string (a JSON-encoded course, or failing that a topic)
//  2. an object wrapping a structured course under "course"
//  3. an object wrapping a preview under "preview" (string or object)
//  4. the bare structured course object itself
//
// If no lessons can be recovered from any variant, a deterministic default
// outline of 5 lessons with 2 videos each is substituted so the pipeline
// never stalls for lack of input structure.
func NormalizeOutline(raw json.RawMessage) CourseOutline {
	outline := decodeVariant(raw)

	if outline.Title == "" {
		outline.Title = "Untitled Course"
	}
	if len(outline.Lessons) == 0 {
		outline.Lessons = defaultLessons()
	}
	return outline
}

func decodeVariant(raw json.RawMessage) CourseOutline {
	if len(raw) == 0 {
		return CourseOutline{}
	}

	// Variant 1: bare string.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var inner looseCourse
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			return inner.outline()
		}
		return CourseOutline{Title: s}
	}

	var wrapper struct {
		Course  json.RawMessage `json:"course"`
		Preview json.RawMessage `json:"preview"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return CourseOutline{}
	}

	// Variant 2: wrapped structured course.
	if isObject(wrapper.Course) {
		var course looseCourse
		if err := json.Unmarshal(wrapper.Course, &course); err == nil {
			return course.outline()
		}
	}

	// Variant 3: wrapped preview, either a JSON-encoded string or an object.
	if len(wrapper.Preview) > 0 {
		var preview string
		if err := json.Unmarshal(wrapper.Preview, &preview); err == nil {
			var inner looseCourse
			if err := json.Unmarshal([]byte(preview), &inner); err == nil {
				return inner.outline()
			}
			return CourseOutline{Title: preview}
		}
		if isObject(wrapper.Preview) {
			var course looseCourse
			if err := json.Unmarshal(wrapper.Preview, &course); err == nil {
				return course.outline()
			}
		}
	}

	// Variant 4: the payload is the course object itself.
	var course looseCourse
	if err := json.Unmarshal(raw, &course); err == nil {
		return course.outline()
	}
	return CourseOutline{}
}

// looseCourse accepts the alternate key spellings seen in preview payloads.
type looseCourse struct {
	CourseTitle       string            `json:"course_title"`
	Topic             string            `json:"topic"`
	Title             string            `json:"title"`
	CourseDescription string            `json:"course_description"`
	Description       string            `json:"description"`
	Lessons           []json.RawMessage `json:"lessons"`
	LessonsPreview    []json.RawMessage `json:"lessons_preview"`
}

func (c looseCourse) outline() CourseOutline {
	entries := c.Lessons
	if len(entries) == 0 {
		entries = c.LessonsPreview
	}

	lessons := make([]LessonSpec, 0, len(entries))
	for i, entry := range entries {
		lessons = append(lessons, decodeLesson(entry, i+1))
	}

	return CourseOutline{
		Title:       firstNonEmpty(c.CourseTitle, c.Topic, c.Title),
		Description: firstNonEmpty(c.CourseDescription, c.Description),
		Lessons:     lessons,
	}
}

// decodeLesson accepts a lesson entry that is either a bare title string or
// an object with alternate key spellings.
func decodeLesson(raw json.RawMessage, position int) LessonSpec {
	var title string
	if err := json.Unmarshal(raw, &title); err == nil {
		return LessonSpec{Title: title}
	}

	var loose struct {
		LessonTitle string   `json:"lesson_title"`
		Title       string   `json:"title"`
		VideoTitles []string `json:"video_titles"`
		Videos      []string `json:"videos"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return LessonSpec{Title: fmt.Sprintf("Lesson %d", position)}
	}

	videos := loose.VideoTitles
	if len(videos) == 0 {
		videos = loose.Videos
	}
	return LessonSpec{
		Title:       firstNonEmpty(loose.LessonTitle, loose.Title, fmt.Sprintf("Lesson %d", position)),
		VideoTitles: videos,
	}
}

func defaultLessons() []LessonSpec {
	lessons := make([]LessonSpec, 0, defaultLessonCount)
	for i := 1; i <= defaultLessonCount; i++ {
		videos := make([]string, 0, defaultVideoCount)
		for v := 1; v <= defaultVideoCount; v++ {
			videos = append(videos, fmt.Sprintf("Video %d.%d", i, v))
		}
		lessons = append(lessons, LessonSpec{
			Title:       fmt.Sprintf("Lesson %d", i),
			VideoTitles: videos,
		})
	}
	return lessons
}

func isObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
