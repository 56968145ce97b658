// Package resolver 将数据行中的名称/编码解析为已存在（或新建）的实体
package resolver

import (
	"context"
	"errors"
	"strings"

	"MedalTally/internal/apperr"
	"MedalTally/internal/interfaces"
	"MedalTally/internal/model"
	"MedalTally/internal/repository"

	"github.com/sirupsen/logrus"
)

// CountryResolver 国家解析；缺失时通过 FlagResolver 生成国旗地址后新建
type CountryResolver struct {
	flags  interfaces.FlagResolver
	logger *logrus.Logger
}

func NewCountryResolver(flags interfaces.FlagResolver, logger *logrus.Logger) *CountryResolver {
	return &CountryResolver{flags: flags, logger: logger}
}

// Resolve 按代码查找，不存在则新建
func (r *CountryResolver) Resolve(ctx context.Context, tx *repository.Store, code, name, iso2 string) (*model.Country, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperr.Malformed("country_code", code, nil)
	}
	c, err := tx.Countries.Get(ctx, code)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if name = strings.TrimSpace(name); name == "" {
		name = code
	}
	c = &model.Country{
		Code:     code,
		FullName: name,
		ISO:      strings.ToUpper(strings.TrimSpace(iso2)),
		FlagURL:  r.flags.ResolveFlagURL(ctx, name, iso2),
	}
	if err := tx.Countries.Upsert(ctx, c); err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"code": c.Code, "name": c.FullName}).Info("新建国家")
	return c, nil
}

// Upsert 以数据集为准覆盖国家属性；ISO 未变化且已有国旗地址时不再重新校验
func (r *CountryResolver) Upsert(ctx context.Context, tx *repository.Store, code, name, iso2 string) (*model.Country, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperr.Malformed("country_code", code, nil)
	}
	iso := strings.ToUpper(strings.TrimSpace(iso2))
	c := &model.Country{Code: code, FullName: strings.TrimSpace(name), ISO: iso}

	existing, err := tx.Countries.Get(ctx, code)
	switch {
	case err == nil && existing.ISO == iso && existing.FlagURL != "":
		c.FlagURL = existing.FlagURL
	case err == nil || errors.Is(err, repository.ErrNotFound):
		c.FlagURL = r.flags.ResolveFlagURL(ctx, c.FullName, iso)
	default:
		return nil, err
	}
	if err := tx.Countries.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Require 国家必须已存在（运动员数据集）
func (r *CountryResolver) Require(ctx context.Context, tx *repository.Store, code string) (*model.Country, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	c, err := tx.Countries.Get(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Dangling("country", code)
	}
	return c, err
}
