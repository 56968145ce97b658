// Package flagurl 国旗图片地址校验
package flagurl

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"MedalTally/internal/apperr"
	"MedalTally/internal/config"
	"MedalTally/internal/interfaces"
	"MedalTally/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Resolver HEAD {base}/{iso2}.png，200 则采用，否则询问操作员，再否则使用占位图
type Resolver struct {
	client      *http.Client
	baseURL     string
	placeholder string
	prompter    interfaces.Prompter
	logger      *logrus.Logger
}

// NewResolver prompter 为 nil 时不询问
func NewResolver(cfg *config.FlagsConfig, prompter interfaces.Prompter, logger *logrus.Logger) *Resolver {
	return &Resolver{
		client:      httpclient.NewHTTPClient(&cfg.HTTPConfig, logger),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		placeholder: cfg.PlaceholderURL,
		prompter:    prompter,
		logger:      logger,
	}
}

// ResolveFlagURL 实现 interfaces.FlagResolver
func (r *Resolver) ResolveFlagURL(ctx context.Context, countryName, iso2 string) string {
	iso2 = strings.ToLower(strings.TrimSpace(iso2))
	log := r.logger.WithFields(logrus.Fields{"country": countryName, "iso": iso2})

	if iso2 != "" && r.baseURL != "" {
		url := fmt.Sprintf("%s/%s.png", r.baseURL, iso2)
		err := r.check(ctx, url)
		if err == nil {
			return url
		}
		log.WithError(err).WithField("kind", apperr.KindExternalLookup).Warn("国旗图片校验失败")
	}

	if r.prompter != nil {
		answer, err := r.prompter.PromptFlagURL(countryName)
		if err != nil {
			log.WithError(err).Warn("读取人工输入的国旗地址失败")
		} else if answer = strings.TrimSpace(answer); answer != "" {
			return answer
		}
	}
	return r.placeholder
}

func (r *Resolver) check(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrExternalLookup, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrExternalLookup, err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HEAD %s 返回 %d", apperr.ErrExternalLookup, url, resp.StatusCode)
	}
	return nil
}

// Placeholder 固定返回占位图，用于离线导入
type Placeholder string

func (p Placeholder) ResolveFlagURL(context.Context, string, string) string { return string(p) }
