package domain

// Slide is one slide descriptor produced by slide synthesis. IconDescription
// and ColorAccent are optional and may be empty.
type Slide struct {
	Title           string   `json:"SlideTitle"`
	KeyPoints       []string `json:"KeyPoints"`
	IconDescription string   `json:"IconDescription"`
	ColorAccent     string   `json:"ColorAccent"`
}

// SlideDeck is the slides.json shape: an ordered list of slides rendered to
// one raster image each, named by 1-based deck position.
type SlideDeck struct {
	Slides []Slide `json:"slides"`
}

// SlideFile is one rendered slide image paired with its access path.
type SlideFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}
