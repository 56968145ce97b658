// Package dataset 从 Kaggle 拉取原始数据文件
package dataset

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"MedalTally/internal/apperr"
	"MedalTally/internal/config"
	"MedalTally/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

var (
	ErrMissingCredentials = errors.New("kaggle username/key not configured")
	ErrUnsafeArchivePath  = errors.New("archive entry escapes target dir")
)

var zipMagic = []byte("PK\x03\x04")

// Downloader Kaggle 数据集文件下载
type Downloader struct {
	client   *http.Client
	baseURL  string
	username string
	key      string
	logger   *logrus.Logger
}

func NewDownloader(cfg *config.KaggleConfig, logger *logrus.Logger) *Downloader {
	return &Downloader{
		client:   httpclient.NewHTTPClient(&cfg.HTTPConfig, logger),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		key:      cfg.Key,
		logger:   logger,
	}
}

// Fetch 下载 ref（owner/dataset）中的 file 到 dir，返回本地路径。
// Kaggle 对较大的文件返回 zip，此时解压到 dir。
func (d *Downloader) Fetch(ctx context.Context, ref, file, dir string) (string, error) {
	if d.username == "" || d.key == "" {
		return "", ErrMissingCredentials
	}
	owner, name, ok := strings.Cut(ref, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", apperr.Malformed("dataset", ref, errors.New("应为 owner/dataset"))
	}
	if file == "" || filepath.Base(file) != file {
		return "", apperr.Malformed("file", file, nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建目录 %s 失败: %w", dir, err)
	}

	endpoint := fmt.Sprintf("%s/datasets/download/%s/%s/%s",
		d.baseURL, url.PathEscape(owner), url.PathEscape(name), url.PathEscape(file))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(d.username, d.key)

	log := d.logger.WithFields(logrus.Fields{"dataset": ref, "file": file})
	log.Info("开始下载 Kaggle 数据")
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrExternalLookup, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: kaggle 返回 %d: %s", apperr.ErrExternalLookup, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	br := bufio.NewReader(resp.Body)
	head, _ := br.Peek(len(zipMagic))
	if !bytes.Equal(head, zipMagic) {
		target := filepath.Join(dir, file)
		n, err := writeFile(target, br)
		if err != nil {
			return "", err
		}
		log.WithField("bytes", n).Info("下载完成")
		return target, nil
	}

	// zip 需要随机访问，先落盘
	tmp, err := os.CreateTemp(dir, ".kaggle-*.zip")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()
	size, err := io.Copy(tmp, br)
	if err != nil {
		return "", fmt.Errorf("写入临时文件失败: %w", err)
	}
	files, err := extract(tmp, size, dir)
	if err != nil {
		return "", err
	}
	log.WithField("files", files).Info("下载并解压完成")

	for _, f := range files {
		if filepath.Base(f) == file {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: 压缩包中没有 %s", apperr.ErrFileNotFound, file)
}

func writeFile(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return n, nil
}

// extract 解压全部普通文件到 dir，返回解压出的路径
func extract(r io.ReaderAt, size int64, dir string) ([]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("%w: 无法解析 zip: %v", apperr.ErrMalformedInput, err)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(root, filepath.FromSlash(zf.Name))
		if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return out, fmt.Errorf("%w: %s", ErrUnsafeArchivePath, zf.Name)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return out, err
		}
		rc, err := zf.Open()
		if err != nil {
			return out, err
		}
		_, err = writeFile(target, rc)
		rc.Close()
		if err != nil {
			return out, err
		}
		out = append(out, target)
	}
	return out, nil
}
