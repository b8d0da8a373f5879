package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
	"p9e.in/omreport/config"
	"p9e.in/omreport/models"
	"p9e.in/omreport/store"
)

// minPlausiblePayload: an encoded payload shorter than this cannot be a
// real image and is rendered as unavailable without attempting a decode.
const minPlausiblePayload = 100

// ExportReport renders one report into a downloadable workbook.
func ExportReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s := store.New(config.DB)
	rep, err := s.GetReport(id)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if rep == nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	// A dangling templateId is fine: tpl stays nil and the sheet carries
	// the missing-template sentinel.
	tpl, err := s.GetTemplate(rep.TemplateID)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	f, err := BuildWorkbook(rep, tpl)
	if err != nil {
		http.Error(w, "failed to generate document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write document", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", sanitizeFilename(rep.OMNumber), time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// BuildWorkbook renders a report plus its template into a workbook. tpl may
// be nil when the report's template reference dangles; the document renders
// a sentinel instead of failing.
func BuildWorkbook(rep *models.Report, tpl *models.Template) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Report"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	title := "Maintenance Execution Report"
	if tpl != nil {
		title = tpl.Title
	}
	f.SetCellValue(sheetName, "A1", title)
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)
	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 60)

	omDescription := "Template missing"
	if tpl != nil {
		omDescription = tpl.OMDescription
	}
	// The template default stands in when the report has no override.
	activity := rep.ActivityExecuted
	if activity == "" && tpl != nil {
		activity = tpl.ActivityExecuted
	}

	rows := [][2]string{
		{"OM Number", rep.OMNumber},
		{"Equipment", rep.Equipment},
		{"Date", rep.Date},
		{"Activity Type", rep.ActivityType},
		{"OM Description", omDescription},
		{"Activity Executed", activity},
		{"Start Time", rep.StartTime},
		{"End Time", rep.EndTime},
		{"Team", rep.Team},
		{"Work Center", rep.WorkCenter},
		{"Technicians", rep.Technicians},
		{"IAMO Deviation", yesNo(rep.IamoDeviation, rep.IamoDeviationDetails)},
		{"OM Finished", yesNo(rep.OMFinished, "")},
		{"Pendings", yesNo(rep.Pendings, rep.PendingDetails)},
		{"Status", rep.Status},
	}

	labelStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	row := 3
	for _, pair := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheetName, labelCell, pair[0])
		f.SetCellStyle(sheetName, labelCell, labelCell, labelStyle)
		f.SetCellValue(sheetName, valueCell, pair[1])
		row++
	}

	if len(rep.Photos) > 0 {
		row++
		headerCell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheetName, headerCell, "Photographic Evidence")
		f.SetCellStyle(sheetName, headerCell, headerCell, labelStyle)
		row++

		for i, photo := range rep.Photos {
			anchor, _ := excelize.CoordinatesToCellName(1, row)
			captionCell, _ := excelize.CoordinatesToCellName(2, row)

			raw, ok := decodePhotoPayload(photo.Base64)
			if !ok {
				f.SetCellValue(sheetName, anchor, fmt.Sprintf("Photo %d: image unavailable", i+1))
				f.SetCellValue(sheetName, captionCell, photo.Caption)
				row += 2
				continue
			}
			if err := f.AddPictureFromBytes(sheetName, anchor, &excelize.Picture{
				Extension: ".jpg",
				File:      raw,
				Format:    &excelize.GraphicOptions{ScaleX: 0.4, ScaleY: 0.4},
			}); err != nil {
				f.SetCellValue(sheetName, anchor, fmt.Sprintf("Photo %d: image unavailable", i+1))
			}
			f.SetCellValue(sheetName, captionCell, photo.Caption)
			f.SetRowHeight(sheetName, row, 140)
			row += 10
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// decodePhotoPayload strips the data-URI prefix and base64-decodes the
// buffer. Implausibly short or undecodable payloads report false so the
// caller renders the unavailable placeholder instead of failing the
// document.
func decodePhotoPayload(s string) ([]byte, bool) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	if len(s) < minPlausiblePayload {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func yesNo(v bool, details string) string {
	if !v {
		return "No"
	}
	if details != "" {
		return "Yes - " + details
	}
	return "Yes"
}

// sanitizeFilename replaces characters that are invalid in filenames.
func sanitizeFilename(filename string) string {
	if filename == "" {
		return "report"
	}
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
	)
	return replacer.Replace(filename)
}
