package export

import (
	"strings"
	"testing"

	"slowreveal/internal/domain"
)

func sampleProject() domain.Project {
	return domain.Project{
		Image:       "https://example.com/map.png",
		Title:       "River Delta",
		AspectRatio: 1.5,
		Slides: []domain.Slide{
			{ID: 1, Selection: domain.Region{Active: true, StartX: 0.1, StartY: 0.2, EndX: 0.4, EndY: 0.5},
				Data: domain.SlideData{GraphicalFeature: "North channel", Description: "Main flow"}},
			{ID: 2, Selection: domain.Region{Active: true, StartX: 0.5, StartY: 0.5, EndX: 0.9, EndY: 0.8},
				Data: domain.SlideData{GraphicalFeature: "Sandbar"}},
		},
	}
}

func TestHTMLSubstitutesAllPlaceholders(t *testing.T) {
	out := HTML(sampleProject())
	for _, ph := range []string{"{sitetitle}", "{imageURL}", "{title}", "{aspect}", "{GraphArea}", "{descriptions}", "{coords}"} {
		if strings.Contains(out, ph) {
			t.Fatalf("placeholder %s survived substitution", ph)
		}
	}
	if !strings.Contains(out, "<title>River Delta</title>") {
		t.Fatalf("site title not substituted")
	}
	if !strings.Contains(out, `src="https://example.com/map.png"`) {
		t.Fatalf("image url not substituted")
	}
	if !strings.Contains(out, `<div id="aspect" style="display: none;">1.5</div>`) {
		t.Fatalf("aspect not substituted: %s", out)
	}
}

func TestHTMLPayloadDivs(t *testing.T) {
	out := HTML(sampleProject())
	if !strings.Contains(out, `<div id="titles" style="display: none;">North channel||Sandbar</div>`) {
		t.Fatalf("titles payload wrong")
	}
	// missing description holds its slot with a single space
	if !strings.Contains(out, `<div id="descs" style="display: none;">Main flow|| </div>`) {
		t.Fatalf("descriptions payload wrong")
	}
	if !strings.Contains(out, `<div id="coords" style="display: none;">0.1,0.2,0.4,0.5||0.5,0.5,0.9,0.8</div>`) {
		t.Fatalf("coords payload wrong")
	}
}

func TestHTMLEmptyDescriptionFirstSlot(t *testing.T) {
	p := sampleProject()
	p.Slides[0].Data.Description = ""
	out := HTML(p)
	if !strings.Contains(out, `<div id="descs" style="display: none;"> || </div>`) {
		t.Fatalf("empty description slots wrong: %s", out)
	}
}

func TestHTMLSingleSlideHasNoSeparator(t *testing.T) {
	p := sampleProject()
	p.Slides = p.Slides[:1]
	out := HTML(p)
	if strings.Contains(out, "||") {
		t.Fatalf("single-slide payload contains separator")
	}
	if !strings.Contains(out, `<div id="titles" style="display: none;">North channel</div>`) {
		t.Fatalf("titles payload wrong for single slide")
	}
}

func TestHTMLNoEscaping(t *testing.T) {
	p := sampleProject()
	p.Title = `Delta <em>&</em>`
	out := HTML(p)
	// substitution is verbatim; the artifact trusts its author
	if !strings.Contains(out, `<title>Delta <em>&</em></title>`) {
		t.Fatalf("title was escaped: %s", out)
	}
}

func TestHTMLPinnedCDNLinks(t *testing.T) {
	out := HTML(sampleProject())
	if !strings.Contains(out, "https://cdn.jsdelivr.net/gh/bsteinig/slow-analysis-cdn/style.css") {
		t.Fatalf("stylesheet link missing")
	}
	if !strings.Contains(out, "https://cdn.jsdelivr.net/gh/bsteinig/slow-analysis-cdn/script.js") {
		t.Fatalf("viewer script link missing")
	}
}

func TestHTMLKeepsUnnormalizedCoords(t *testing.T) {
	p := sampleProject()
	p.Slides = p.Slides[:1]
	p.Slides[0].Selection = domain.Region{Active: true, StartX: 0.9, StartY: 0.8, EndX: 0.1, EndY: 0.2}
	out := HTML(p)
	if !strings.Contains(out, ">0.9,0.8,0.1,0.2</div>") {
		t.Fatalf("coords were reordered: %s", out)
	}
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		0.5:   "0.5",
		1:     "1",
		1.5:   "1.5",
		0.125: "0.125",
	}
	for in, want := range cases {
		if got := formatFloat(in); got != want {
			t.Fatalf("formatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}
