package services

import (
	"html/template"
	"strings"
	"time"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/config"
)

// LabelService renders printable HTML shipping labels. Rendering is pure
// formatting: missing alumni fields come out as empty strings, never errors.
type LabelService struct {
	company config.CompanyConfig
}

// NewLabelService creates a new label service
func NewLabelService(company config.CompanyConfig) *LabelService {
	return &LabelService{company: company}
}

type labelData struct {
	SenderName     string
	SenderAddress  string
	SenderPhone    string
	RecipientName  string
	Address        string
	Phone          string
	TrackingNumber string
	Empty          bool
}

type labelPage struct {
	Title  string
	Labels []labelData
}

const labelCSS = `
	* { box-sizing: border-box; margin: 0; padding: 0; }
	body { font-family: 'Sarabun', 'TH Sarabun New', sans-serif; background: #fff; padding: 10mm; }
	.sheet { display: flex; flex-wrap: wrap; gap: 5mm; }
	.label { width: 90mm; min-height: 55mm; border: 1px solid #333; border-radius: 4px; padding: 4mm; page-break-inside: avoid; }
	.label.empty { border-style: dashed; border-color: #ccc; }
	.sender { font-size: 10px; color: #555; border-bottom: 1px dashed #999; padding-bottom: 2mm; margin-bottom: 2mm; }
	.recipient { font-size: 14px; }
	.recipient .name { font-weight: bold; font-size: 16px; margin-bottom: 1mm; }
	.tracking { margin-top: 2mm; font-size: 12px; font-weight: bold; letter-spacing: 1px; }
	@media print { body { padding: 0; } }
`

const labelTemplateText = `<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>` + labelCSS + `</style>
</head>
<body>
<div class="sheet">
{{range .Labels}}
	{{if .Empty}}
	<div class="label empty"></div>
	{{else}}
	<div class="label">
		<div class="sender">
			ผู้ส่ง: {{.SenderName}}<br>
			{{.SenderAddress}}{{if .SenderPhone}} โทร. {{.SenderPhone}}{{end}}
		</div>
		<div class="recipient">
			<div class="name">ผู้รับ: {{.RecipientName}}</div>
			<div>{{.Address}}</div>
			{{if .Phone}}<div>โทร. {{.Phone}}</div>{{end}}
		</div>
		{{if .TrackingNumber}}<div class="tracking">เลขพัสดุ: {{.TrackingNumber}}</div>{{end}}
	</div>
	{{end}}
{{end}}
</div>
</body>
</html>`

const summaryTemplateText = `<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
	body { font-family: 'Sarabun', 'TH Sarabun New', sans-serif; padding: 10mm; }
	h1 { font-size: 18px; margin-bottom: 2mm; }
	.meta { font-size: 12px; color: #555; margin-bottom: 5mm; }
	table { width: 100%; border-collapse: collapse; font-size: 13px; }
	th, td { border: 1px solid #333; padding: 2mm 3mm; text-align: left; }
	th { background: #eee; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">{{.SenderName}} | พิมพ์เมื่อ {{.Printed}} | ทั้งหมด {{len .Rows}} รายการ</div>
<table>
<thead>
<tr><th>#</th><th>ชื่อ-สกุล</th><th>ที่อยู่</th><th>โทรศัพท์</th><th>เลขพัสดุ</th></tr>
</thead>
<tbody>
{{range $i, $r := .Rows}}
<tr>
	<td>{{add $i 1}}</td>
	<td>{{$r.RecipientName}}</td>
	<td>{{$r.Address}}</td>
	<td>{{$r.Phone}}</td>
	<td>{{$r.TrackingNumber}}</td>
</tr>
{{end}}
</tbody>
</table>
</body>
</html>`

var labelTemplate = template.Must(template.New("labels").Parse(labelTemplateText))

var summaryTemplate = template.Must(
	template.New("summary").
		Funcs(template.FuncMap{"add": func(a, b int) int { return a + b }}).
		Parse(summaryTemplateText))

func (s *LabelService) toLabel(alumni *models.Alumni) labelData {
	return labelData{
		SenderName:     s.company.Name,
		SenderAddress:  s.company.Address,
		SenderPhone:    s.company.Phone,
		RecipientName:  alumni.FullName(),
		Address:        alumni.Address,
		Phone:          alumni.Phone,
		TrackingNumber: alumni.TrackingNumber,
	}
}

func renderPage(page *labelPage) (string, error) {
	var sb strings.Builder
	if err := labelTemplate.Execute(&sb, page); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderLabel renders one shipping label
func (s *LabelService) RenderLabel(alumni *models.Alumni) (string, error) {
	return renderPage(&labelPage{
		Title:  "ใบจ่าหน้าพัสดุ",
		Labels: []labelData{s.toLabel(alumni)},
	})
}

// Render4Up renders a sheet of four labels. Fewer than four inputs pad with
// empty placeholders; more than four are truncated to the first four.
func (s *LabelService) Render4Up(alumni []*models.Alumni) (string, error) {
	labels := make([]labelData, 0, 4)
	for _, a := range alumni {
		if len(labels) == 4 {
			break
		}
		labels = append(labels, s.toLabel(a))
	}
	for len(labels) < 4 {
		labels = append(labels, labelData{Empty: true})
	}

	return renderPage(&labelPage{
		Title:  "ใบจ่าหน้าพัสดุ 4 ดวง",
		Labels: labels,
	})
}

// RenderBulk renders one label per record, however many there are
func (s *LabelService) RenderBulk(alumni []*models.Alumni) (string, error) {
	labels := make([]labelData, 0, len(alumni))
	for _, a := range alumni {
		labels = append(labels, s.toLabel(a))
	}

	return renderPage(&labelPage{
		Title:  "ใบจ่าหน้าพัสดุทั้งหมด",
		Labels: labels,
	})
}

type summaryPage struct {
	Title      string
	SenderName string
	Printed    string
	Rows       []labelData
}

// RenderSummary renders a printable table of a shipping batch
func (s *LabelService) RenderSummary(alumni []*models.Alumni) (string, error) {
	rows := make([]labelData, 0, len(alumni))
	for _, a := range alumni {
		rows = append(rows, s.toLabel(a))
	}

	var sb strings.Builder
	err := summaryTemplate.Execute(&sb, &summaryPage{
		Title:      "สรุปรายการจัดส่งเอกสาร",
		SenderName: s.company.Name,
		Printed:    time.Now().Format("02/01/2006 15:04"),
		Rows:       rows,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
