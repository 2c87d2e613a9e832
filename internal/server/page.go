package server

import (
	"html/template"
	"strconv"

	"github.com/KaramelBytes/salesdash/internal/dashboard"
	"github.com/KaramelBytes/salesdash/internal/dataset"
)

type option struct {
	Value    string
	Selected bool
}

type panel struct {
	Slot  int
	Title string
	Src   template.URL
}

type pageData struct {
	Source   string
	Rows     int
	Total    int
	Brands   []option
	Seasons  []option
	PriceMin string
	PriceMax string
	Lo       string
	Hi       string
	Panels   [dashboard.NumPanels]panel
}

func newPageData(store *dataset.Store, d *dashboard.Dashboard) pageData {
	dom := store.Domains()
	lo, hi := d.Selection.Interval()
	p := pageData{
		Source:   store.Source(),
		Rows:     d.Rows,
		Total:    store.Len(),
		Brands:   options(dom.Brands, d.Selection.Brands),
		Seasons:  options(dom.Seasons, d.Selection.Seasons),
		PriceMin: num(dom.PriceMin),
		PriceMax: num(dom.PriceMax),
		Lo:       num(lo),
		Hi:       num(hi),
	}
	for i, c := range d.Charts {
		p.Panels[i] = panel{Slot: i + 1, Title: c.Title}
	}
	return p
}

func options(domain, selected []string) []option {
	in := make(map[string]bool, len(selected))
	for _, s := range selected {
		in[s] = true
	}
	out := make([]option, len(domain))
	for i, v := range domain {
		out[i] = option{Value: v, Selected: in[v]}
	}
	return out
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

var pageTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Sales dashboard</title>
<style>
body { font-family: sans-serif; margin: 0; background: #f5f6fa; }
header { padding: 12px 20px; background: #fff; border-bottom: 1px solid #ddd; }
form { display: flex; gap: 24px; flex-wrap: wrap; align-items: flex-start; padding: 12px 20px; }
label { display: block; font-weight: bold; margin-bottom: 4px; }
select[multiple] { min-width: 180px; height: 120px; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(520px, 1fr)); gap: 16px; padding: 0 20px 20px; }
.panel { background: #fff; border: 1px solid #ddd; }
.panel img { width: 100%; height: auto; display: block; }
</style>
</head>
<body>
<header><strong>{{.Source}}</strong> &middot; {{.Rows}} of {{.Total}} rows</header>
<form method="get" action="/">
  <div>
    <label for="brand">Brand</label>
    <select id="brand" name="brand" multiple onchange="this.form.submit()">
      {{- range .Brands}}
      <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
      {{- end}}
    </select>
  </div>
  <div>
    <label for="season">Season</label>
    <select id="season" name="season" multiple onchange="this.form.submit()">
      {{- range .Seasons}}
      <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
      {{- end}}
    </select>
  </div>
  <div>
    <label>Price</label>
    <input type="range" name="price_min" min="{{.PriceMin}}" max="{{.PriceMax}}" step="any" value="{{.Lo}}" onchange="this.form.submit()">
    <input type="range" name="price_max" min="{{.PriceMin}}" max="{{.PriceMax}}" step="any" value="{{.Hi}}" onchange="this.form.submit()">
    <div>{{.Lo}} &ndash; {{.Hi}}</div>
  </div>
</form>
<div class="grid">
  {{- range .Panels}}
  <div class="panel" id="panel-{{.Slot}}"><img alt="{{.Title}}" src="{{.Src}}"></div>
  {{- end}}
</div>
</body>
</html>
`))
