package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/velocityfibre/fibreflow/internal/srm/scorecard"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportService 记分卡导出服务：渲染xlsx，可选上传MinIO
type ExportService struct {
	minioClient *minio.Client
	bucketName  string
	logger      *zap.Logger
}

// NewExportService minioClient 可为 nil，此时仅支持直接下载
func NewExportService(minioClient *minio.Client, bucketName string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		minioClient: minioClient,
		bucketName:  bucketName,
		logger:      logger,
	}
}

var scorecardExportHeaders = []string{
	"Supplier ID", "Supplier Name", "Overall Score",
	"On-time Delivery", "Quality", "Response Time", "Issue Resolution",
	"Compliance Score", "Compliance Status",
	"3-Month Trend", "6-Month Trend", "12-Month Trend",
	"Industry Percentile", "Peer Comparison", "Recommendations",
}

// RenderBatchWorkbook 批量结果渲染成工作簿：明细页 + 汇总页
func (s *ExportService) RenderBatchWorkbook(result *scorecard.BatchResult) (*excelize.File, string, error) {
	f := excelize.NewFile()
	sheet := "Scorecards"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range scorecardExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, item := range result.Successful {
		card := item.Scorecard
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), card.SupplierID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), card.SupplierName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), card.OverallScore)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), card.Performance.OnTimeDelivery)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), card.Performance.QualityScore)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), card.Performance.ResponseTime)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), card.Performance.IssueResolution)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), card.Compliance.Score)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), card.Compliance.Status)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), card.Trends.Last3Months)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), card.Trends.Last6Months)
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), card.Trends.Last12Months)
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), card.Benchmarks.IndustryPercentile)
		f.SetCellValue(sheet, fmt.Sprintf("N%d", row), card.Benchmarks.PeerComparison)
		if len(card.Recommendations) > 0 {
			f.SetCellValue(sheet, fmt.Sprintf("O%d", row), card.Recommendations[0])
		}
	}

	colWidths := []float64{34, 28, 12, 14, 10, 14, 14, 14, 16, 12, 12, 12, 16, 14, 50}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	// 汇总页
	summary := "Summary"
	f.NewSheet(summary)
	f.SetCellValue(summary, "A1", "Total processed")
	f.SetCellValue(summary, "B1", result.TotalProcessed)
	f.SetCellValue(summary, "A2", "Successful")
	f.SetCellValue(summary, "B2", len(result.Successful))
	f.SetCellValue(summary, "A3", "Failed")
	f.SetCellValue(summary, "B3", len(result.Failed))
	f.SetCellValue(summary, "A4", "Success rate (%)")
	f.SetCellValue(summary, "B4", result.SuccessRate)

	for i, failed := range result.Failed {
		row := 6 + i
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), failed.SupplierID)
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), failed.Error)
	}

	filename := fmt.Sprintf("supplier_scorecards_%s.xlsx", time.Now().Format("20060102_150405"))
	return f, filename, nil
}

// UploadWorkbook 上传工作簿到对象存储，返回对象键
func (s *ExportService) UploadWorkbook(ctx context.Context, f *excelize.File, filename string) (string, error) {
	if s.minioClient == nil {
		return "", fmt.Errorf("object storage not configured")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", fmt.Errorf("render workbook: %w", err)
	}

	objectName := "scorecards/" + filename
	_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	if err != nil {
		return "", fmt.Errorf("upload workbook: %w", err)
	}

	s.logger.Info("scorecard export uploaded",
		zap.String("object", objectName),
		zap.String("bucket", s.bucketName),
	)
	return objectName, nil
}
