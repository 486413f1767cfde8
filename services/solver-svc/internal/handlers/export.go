package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"flownet/pkg/apperror"
	"flownet/pkg/logger"
	"flownet/services/solver-svc/internal/repository"
	"flownet/services/solver-svc/internal/service"
)

// ExportRun обрабатывает GET /v1/runs/{id}/export и отдаёт расчёт
// книгой xlsx: лист с параметрами расчёта и лист с остаточными рёбрами.
func (h *Handler) ExportRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := buildRunWorkbook(run)
	if err != nil {
		writeError(w, apperror.Wrap(err, apperror.CodeInternal, "failed to build export"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "solve-run-"+run.ID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Log.Error("Failed to write export", "error", err)
	}
}

func buildRunWorkbook(run *repository.Run) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Solve Run"
	f.NewSheet(sheetName)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	row := 1
	f.SetCellValue(sheetName, cellAddr("A", row), "Max Flow Solve Run")
	f.MergeCell(sheetName, cellAddr("A", row), cellAddr("B", row))
	row += 2

	f.SetCellValue(sheetName, cellAddr("A", row), "Run")
	f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("B", row), headerStyle)
	row++

	fields := []struct {
		name  string
		value any
	}{
		{"Run ID", run.ID},
		{"Name", run.Name},
		{"Source", run.Source},
		{"Network Hash", run.NetworkHash},
		{"Max Flow", run.MaxFlow},
		{"Cached", run.Cached},
		{"Nodes", run.NodeCount},
		{"Edges", run.EdgeCount},
		{"Computation Time (ms)", run.ComputationTimeMs},
		{"Created At", run.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	for _, field := range fields {
		f.SetCellValue(sheetName, cellAddr("A", row), field.name)
		f.SetCellValue(sheetName, cellAddr("B", row), field.value)
		row++
	}

	f.SetColWidth(sheetName, "A", "B", 24)

	writeResidualSheet(f, headerStyle, run.ResultData)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeResidualSheet добавляет лист с остаточными рёбрами, если они
// сохранились в результате расчёта
func writeResidualSheet(f *excelize.File, headerStyle int, resultData []byte) {
	if len(resultData) == 0 {
		return
	}

	var result service.SolveOutput
	if err := json.Unmarshal(resultData, &result); err != nil || len(result.ResidualEdges) == 0 {
		return
	}

	sheetName := "Residual Edges"
	f.NewSheet(sheetName)

	headers := []string{"From", "To", "Capacity"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cellAddr(string(rune('A'+i)), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", "C1", headerStyle)

	for i, edge := range result.ResidualEdges {
		row := i + 2
		f.SetCellValue(sheetName, cellAddr("A", row), edge.From)
		f.SetCellValue(sheetName, cellAddr("B", row), edge.To)
		f.SetCellValue(sheetName, cellAddr("C", row), edge.Capacity.String())
	}

	f.SetColWidth(sheetName, "A", "C", 18)
}

// cellAddr формирует адрес ячейки
func cellAddr(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
