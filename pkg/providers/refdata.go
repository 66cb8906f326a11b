package providers

import (
	"encoding/json"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ReferenceData BNCC 与 SAEB 参考数据，原样嵌入系统提示词
type ReferenceData struct {
	BNCC json.RawMessage
	SAEB json.RawMessage
}

// EmptyReferenceData 返回空的参考数据
func EmptyReferenceData() ReferenceData {
	return ReferenceData{
		BNCC: json.RawMessage("[]"),
		SAEB: json.RawMessage("{}"),
	}
}

// LoadReferenceData 从文件加载参考数据
//
// 任一文件缺失或不是合法 JSON 时使用空数据替代，只记录警告，不会让请求失败。
func LoadReferenceData(bnccPath, saebPath string, logger *zap.Logger) ReferenceData {
	if logger == nil {
		logger = zap.NewNop()
	}
	data := EmptyReferenceData()
	if raw, ok := readJSONFile(bnccPath, logger); ok {
		data.BNCC = raw
	}
	if raw, ok := readJSONFile(saebPath, logger); ok {
		data.SAEB = raw
	}
	return data
}

func readJSONFile(path string, logger *zap.Logger) (json.RawMessage, bool) {
	if strings.TrimSpace(path) == "" {
		return nil, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read reference data, using empty data",
			zap.String("path", path),
			zap.Error(err))
		return nil, false
	}
	if !json.Valid(raw) {
		logger.Warn("reference data is not valid JSON, using empty data",
			zap.String("path", path))
		return nil, false
	}
	return json.RawMessage(raw), true
}
