// Package store owns the on-disk artifact layout for generated courses and
// rendered slides. It is pure I/O; all policy lives in the services above it.
//
// Layout:
//
//	<root>/<job-id>/lesson_<n>/script_l<n>_v<i>.txt
//	<root>/<job-id>/lesson_<n>/quiz.json
//	<root>/<job-id>/lesson_<n>/workbook.txt
//	<root>/<job-id>/course.json
//	<root>/<job-id>/{logo.png,banner.png}
//	<root>/<job-id>.zip
//	<slides-root>/<lesson-id>/{improved.json,slides.json}
//	<slides-root>/<lesson-id>/png/slide-<n>.png
package store

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lumen/courseforge/internal/domain"
)

// ArtifactStore manages job-scoped and lesson-scoped directory trees.
type ArtifactStore struct {
	root       string
	slidesRoot string
}

// NewArtifactStore creates both storage roots if they do not exist yet.
func NewArtifactStore(root, slidesRoot string) (*ArtifactStore, error) {
	for _, dir := range []string{root, slidesRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage root %s: %w", dir, err)
		}
	}
	return &ArtifactStore{root: root, slidesRoot: slidesRoot}, nil
}

// Root returns the generated-course root directory.
func (s *ArtifactStore) Root() string {
	return s.root
}

// JobDir returns the job directory, creating it if needed.
func (s *ArtifactStore) JobDir(jobID string) (string, error) {
	dir := filepath.Join(s.root, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create job dir: %w", err)
	}
	return dir, nil
}

// LessonDir returns the directory for the 1-based lesson position, creating
// it if needed.
func (s *ArtifactStore) LessonDir(jobID string, lesson int) (string, error) {
	dir := filepath.Join(s.root, jobID, fmt.Sprintf("lesson_%d", lesson))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create lesson dir: %w", err)
	}
	return dir, nil
}

// WriteScript writes one video script and returns its path.
func (s *ArtifactStore) WriteScript(lessonDir string, lesson, video int, text string) (string, error) {
	path := filepath.Join(lessonDir, fmt.Sprintf("script_l%d_v%d.txt", lesson, video))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}
	return path, nil
}

// WriteQuiz writes the lesson quiz JSON and returns its path.
func (s *ArtifactStore) WriteQuiz(lessonDir string, quiz []byte) (string, error) {
	path := filepath.Join(lessonDir, "quiz.json")
	if err := os.WriteFile(path, quiz, 0o644); err != nil {
		return "", fmt.Errorf("write quiz: %w", err)
	}
	return path, nil
}

// WriteWorkbook writes the lesson workbook text and returns its path.
func (s *ArtifactStore) WriteWorkbook(lessonDir, text string) (string, error) {
	path := filepath.Join(lessonDir, "workbook.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	return path, nil
}

// WriteImage writes a media asset (logo.png, banner.png) into the job
// directory and returns its path.
func (s *ArtifactStore) WriteImage(jobID, name string, data []byte) (string, error) {
	dir, err := s.JobDir(jobID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %w", name, err)
	}
	return path, nil
}

// WriteCourseJSON serializes the course manifest into the job directory.
func (s *ArtifactStore) WriteCourseJSON(jobID string, course domain.Course) (string, error) {
	dir, err := s.JobDir(jobID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(course, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal course: %w", err)
	}

	path := filepath.Join(dir, "course.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write course.json: %w", err)
	}
	return path, nil
}

// ReadCourseJSON loads the course manifest back from the job directory.
func (s *ArtifactStore) ReadCourseJSON(jobID string) (domain.Course, error) {
	data, err := os.ReadFile(filepath.Join(s.root, jobID, "course.json"))
	if err != nil {
		return domain.Course{}, fmt.Errorf("read course.json: %w", err)
	}

	var course domain.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return domain.Course{}, fmt.Errorf("parse course.json: %w", err)
	}
	return course, nil
}

// Archive zips the whole job directory tree into <root>/<job-id>.zip,
// replacing any previous archive for the same job, and returns the archive
// path. Entry names are relative to the job directory.
func (s *ArtifactStore) Archive(jobID string) (string, error) {
	jobDir := filepath.Join(s.root, jobID)
	archivePath := s.ArchivePath(jobID)

	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("remove stale archive: %w", err)
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	err = filepath.WalkDir(jobDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(jobDir, path)
		if err != nil {
			return err
		}

		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(entry, src)
		return err
	})
	if err != nil {
		w.Close()
		return "", fmt.Errorf("archive job dir: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	return archivePath, nil
}

// ArchivePath returns where the job archive lives, whether or not it exists.
func (s *ArtifactStore) ArchivePath(jobID string) string {
	return filepath.Join(s.root, jobID+".zip")
}

// SlidesDir returns the lesson-scoped slides directory, creating it if
// needed.
func (s *ArtifactStore) SlidesDir(lessonID string) (string, error) {
	dir := filepath.Join(s.slidesRoot, lessonID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create slides dir: %w", err)
	}
	return dir, nil
}

// WriteImproved persists the improved-script JSON for a lesson.
func (s *ArtifactStore) WriteImproved(lessonID string, data []byte) (string, error) {
	dir, err := s.SlidesDir(lessonID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "improved.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write improved.json: %w", err)
	}
	return path, nil
}

// WriteDeck persists the raw slide deck JSON for a lesson.
func (s *ArtifactStore) WriteDeck(lessonID string, data []byte) (string, error) {
	dir, err := s.SlidesDir(lessonID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "slides.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write slides.json: %w", err)
	}
	return path, nil
}

// ReadDeck loads a previously synthesized slide deck for a lesson.
func (s *ArtifactStore) ReadDeck(lessonID string) (domain.SlideDeck, error) {
	data, err := os.ReadFile(filepath.Join(s.slidesRoot, lessonID, "slides.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.SlideDeck{}, domain.ErrNotFound
		}
		return domain.SlideDeck{}, fmt.Errorf("read slides.json: %w", err)
	}

	var deck domain.SlideDeck
	if err := json.Unmarshal(data, &deck); err != nil {
		return domain.SlideDeck{}, fmt.Errorf("parse slides.json: %w", err)
	}
	return deck, nil
}

// PNGDir returns the rendered-slide directory for a lesson, creating it if
// needed.
func (s *ArtifactStore) PNGDir(lessonID string) (string, error) {
	dir := filepath.Join(s.slidesRoot, lessonID, "png")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create png dir: %w", err)
	}
	return dir, nil
}

// SlidePath returns the image path for the 1-based slide position.
func (s *ArtifactStore) SlidePath(lessonID string, n int) string {
	return filepath.Join(s.slidesRoot, lessonID, "png", fmt.Sprintf("slide-%d.png", n))
}

// SlideFilePath returns the path of a rendered slide by filename.
func (s *ArtifactStore) SlideFilePath(lessonID, filename string) string {
	return filepath.Join(s.slidesRoot, lessonID, "png", filename)
}

// ListSlides returns the rendered slide filenames for a lesson in sorted
// order. A lesson with no rendered slides yields an empty list, not an
// error.
func (s *ArtifactStore) ListSlides(lessonID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.slidesRoot, lessonID, "png"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list slides: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
