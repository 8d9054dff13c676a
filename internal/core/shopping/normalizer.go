package shopping

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shopping-planner/internal/infrastructure/config"
	"shopping-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Normalizer 名稱正規化服務的邊界
// 輸入一批不同的原始名稱，輸出原始名稱到標準名稱的對照
// 對照僅為建議：缺漏的名稱由呼叫方退回原始名稱，失敗不得中斷合併流程
type Normalizer interface {
	NormalizeNames(ctx context.Context, names []string) (map[string]string, error)
}

// HTTPNormalizer 透過 HTTP 呼叫外部正規化服務
type HTTPNormalizer struct {
	config *config.Config
	client *resty.Client
}

// NewHTTPNormalizer 創建正規化服務客戶端
func NewHTTPNormalizer(cfg *config.Config) *HTTPNormalizer {
	client := resty.New().
		SetBaseURL(cfg.Normalizer.BaseURL).
		SetTimeout(cfg.Normalizer.Timeout)
	if cfg.Normalizer.APIKey != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Normalizer.APIKey))
	}

	return &HTTPNormalizer{
		config: cfg,
		client: client,
	}
}

// NormalizeNames 批次正規化食材名稱
// 請求體為原始名稱陣列，回應為 { 原始名稱: 標準名稱 } 對照物件
func (n *HTTPNormalizer) NormalizeNames(ctx context.Context, names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}

	start := time.Now()

	// 發送請求
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(names).
		Post("/normalize")

	if err != nil {
		common.LogNormalizerCall(len(names), time.Since(start), err)
		return nil, fmt.Errorf("failed to send request to normalizer: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("normalizer returned error status %d: %s", resp.StatusCode(), resp.String())
		common.LogNormalizerCall(len(names), time.Since(start), err)
		return nil, err
	}

	// 解析回應
	var mapping map[string]string
	if err := common.ParseJSONBytes(resp.Body(), &mapping); err != nil {
		err = fmt.Errorf("failed to parse normalizer response: %w", err)
		common.LogNormalizerCall(len(names), time.Since(start), err)
		return nil, err
	}

	common.LogNormalizerCall(len(names), time.Since(start), nil)
	return mapping, nil
}

// NoopNormalizer 正規化服務停用時的替代實作，每個名稱對應到自己
type NoopNormalizer struct{}

// NormalizeNames 回傳空對照，呼叫方退回原始名稱
func (NoopNormalizer) NormalizeNames(ctx context.Context, names []string) (map[string]string, error) {
	return map[string]string{}, nil
}
