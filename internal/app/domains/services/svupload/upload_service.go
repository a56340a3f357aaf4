package svupload

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"irap/analyzer/internal/app/domains/entity/etupload"
	"irap/analyzer/internal/app/domains/repo/rpupload"
	"irap/analyzer/internal/app/pkg/errorx"
	"irap/analyzer/internal/app/pkg/idgen"
	"irap/analyzer/internal/app/pkg/logger"
)

// UploadService 上传服务，负责数据接收、解析和暂存
type UploadService struct {
	uploadRepo   rpupload.UploadRepository
	maxFileBytes int64
	retention    time.Duration
	log          logger.Logger
}

// NewUploadService 创建上传服务实例
func NewUploadService(uploadRepo rpupload.UploadRepository, maxFileBytes int64, retention time.Duration, log logger.Logger) *UploadService {
	return &UploadService{
		uploadRepo:   uploadRepo,
		maxFileBytes: maxFileBytes,
		retention:    retention,
		log:          log,
	}
}

// CreateUpload 接收并解析上传数据（完整业务流程）
// 1. 校验大小上限
// 2. 识别格式（扩展名优先，其次内容嗅探）
// 3. 解析为行集合并暂存
func (s *UploadService) CreateUpload(ctx context.Context, filename string, content []byte) (*etupload.Upload, error) {
	if int64(len(content)) > s.maxFileBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", errorx.ErrFileTooLarge, len(content), s.maxFileBytes)
	}

	format := DetectFormat(filename, content)

	var rows []map[string]interface{}
	var err error
	switch format {
	case etupload.FormatCSV:
		rows, err = ParseCSV(string(content))
	case etupload.FormatJSON:
		rows, err = ParseJSON(content)
	default:
		return nil, fmt.Errorf("%w: %q", errorx.ErrUnsupportedFileType, filename)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errorx.ErrEmptyDataset
	}

	upload, err := etupload.NewUpload(idgen.NewUploadID(), filename, format, rows, s.retention)
	if err != nil {
		return nil, fmt.Errorf("create upload entity failed: %w", err)
	}

	if err := s.uploadRepo.Save(ctx, upload); err != nil {
		return nil, fmt.Errorf("save upload failed: %w", err)
	}

	s.log.Infof(ctx, "upload %s accepted: format=%s rows=%d", upload.ID, upload.Format, upload.TotalRows)
	return upload, nil
}

// GetUpload 查询上传数据
func (s *UploadService) GetUpload(ctx context.Context, uploadID string) (*etupload.Upload, error) {
	return s.uploadRepo.GetByID(ctx, uploadID)
}

// DetectFormat 识别上传数据格式：扩展名优先，其次看内容首字符
func DetectFormat(filename string, content []byte) etupload.Format {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		switch strings.ToLower(filename[idx+1:]) {
		case "csv":
			return etupload.FormatCSV
		case "json":
			return etupload.FormatJSON
		}
	}

	trimmed := strings.TrimSpace(string(content))
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return etupload.FormatJSON
	}
	return etupload.FormatCSV
}

// ParseCSV 解析 CSV 文本：首行为表头，单元格一律按字符串处理
func ParseCSV(content string) ([]map[string]interface{}, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorx.ErrMalformedInput, err)
	}
	if len(records) < 2 {
		return nil, errorx.ErrEmptyDataset
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]interface{}, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]interface{}, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ParseJSON 解析 JSON 文本，只接受顶层为对象数组的形态
func ParseJSON(content []byte) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	if err := json.Unmarshal(content, &rows); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of objects", errorx.ErrMalformedInput)
	}
	return rows, nil
}
