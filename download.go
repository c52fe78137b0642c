package docufill

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
)

// Downloader fetches a remote template to a local temp file
type Downloader interface {
	DownloadFile(ctx context.Context, urlStr string) (tmpFile string, err error)
}

// DownloadClient to use instead of default http.Client
type DownloadClient struct {
}

// DefaultDownloader to use as default client
var DefaultDownloader Downloader = &DownloadClient{}

// DownloadFile (satisfy interface) Download url file
func (DownloadClient) DownloadFile(ctx context.Context, urlStr string) (tmpFile string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("download: close body: %s", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: %s", urlStr, resp.Status)
	}

	// Keep the source extension so OpenTemplate treats it as docx
	out, err := os.CreateTemp("", "docufill-*"+path.Ext(urlStr))
	if err != nil {
		return "", err
	}
	tmpFile = out.Name()

	defer func() {
		if err := out.Close(); err != nil {
			log.Printf("download: close: %s", err)
		}
	}()

	if _, err = io.Copy(out, resp.Body); err != nil {
		return "", err
	}
	return tmpFile, nil
}
