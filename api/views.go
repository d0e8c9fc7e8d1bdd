package api

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/rpupo63/travel-planner/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	pageList   = "list.html"
	pageDetail = "detail.html"
	pageNew    = "new.html"
)

var templateFuncs = template.FuncMap{
	"plural": plural,
}

// pages holds one template set per page; every set shares the layout and
// the components.
var pages = mustParsePages(pageList, pageDetail, pageNew)

func mustParsePages(names ...string) map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed[name] = template.Must(template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/components.html",
			"templates/"+name,
		))
	}
	return parsed
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// plural renders "1 place" or "3 places".
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

type pageMeta struct {
	Title string
	Modal *modalView
}

type modalView struct {
	Title      string
	Body       string
	Emphasis   string
	BodySuffix string
	CloseURL   string
	FormAction string
	Fields     []formField
	Actions    []modalAction
}

type formField struct {
	Label    string
	Name     string
	Type     string
	Value    string
	Required bool
}

// modalAction is a link, a one-button POST form, or (Submit) a submit button
// of the modal's own form.
type modalAction struct {
	Label  string
	URL    string
	Class  string
	Post   bool
	Submit bool
}

func errorModal(title, message, closeURL string) *modalView {
	return &modalView{
		Title:    title,
		Body:     message,
		CloseURL: closeURL,
		Actions:  []modalAction{{Label: "OK", URL: closeURL, Class: "button-primary"}},
	}
}

type searchWidgetView struct {
	Query    string
	Searched bool
	Results  []models.ArtworkResult
	Error    string
	Added    map[int]bool
	// InForm renders the widget's buttons as part of an enclosing form.
	InForm       bool
	SearchAction string
	AddAction    string
}

type projectCardView struct {
	Project   models.ProjectListItem
	DeleteURL string
}

type listPageView struct {
	pageMeta
	Projects []models.ProjectListItem
	Cards    []projectCardView
	Page     int
	Pages    int
	Status   string
	Error    string
}

func (v listPageView) HasPrev() bool {
	return v.Page > 1
}

func (v listPageView) HasNext() bool {
	return v.Page < v.Pages
}

func (v listPageView) PrevURL() string {
	return listURL(v.Page-1, v.Status)
}

func (v listPageView) NextURL() string {
	return listURL(v.Page+1, v.Status)
}

// listURL builds the list address, leaving out defaults.
func listURL(page int, status string) string {
	return withListQuery("/", page, status)
}

type placeCardView struct {
	ProjectID    int
	Place        models.Place
	EditingNotes bool
	NotesValue   string
}

type detailPageView struct {
	pageMeta
	Project    *models.Project
	Places     []placeCardView
	ShowSearch bool
	Search     searchWidgetView
	Error      string
}

type newPageView struct {
	pageMeta
	Draft     *models.TripDraft
	Search    searchWidgetView
	Error     string
	MaxPlaces int
}
