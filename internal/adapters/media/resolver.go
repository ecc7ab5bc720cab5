package media

import (
	"fmt"
	"net/url"
	"strings"
)

// URLResolver превращает пути медиа из записей в абсолютные URL относительно
// адреса файлового хранилища каталог-сервера.
type URLResolver struct {
	base *url.URL
}

func NewURLResolver(baseURL string) (*URLResolver, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid media base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("media base URL must be http(s), got %q", baseURL)
	}
	// путь базы - каталог, иначе ResolveReference отрежет последний сегмент
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return &URLResolver{base: base}, nil
}

// ResolveMediaURL возвращает абсолютный URL или false, если путь пустой или
// не может быть адресом медиа.
func (r *URLResolver) ResolveMediaURL(path string) (string, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", false
	}
	if strings.HasPrefix(path, "//") {
		path = r.base.Scheme + ":" + path
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", false
	}
	switch {
	case ref.Scheme == "http" || ref.Scheme == "https":
		if ref.Host == "" {
			return "", false
		}
		return ref.String(), true
	case ref.Scheme != "":
		// data:, file: и прочее клиенту не отдаем
		return "", false
	}

	ref.Path = strings.TrimLeft(strings.TrimPrefix(ref.Path, "./"), "/")
	if ref.Path == "" {
		return "", false
	}
	return r.base.ResolveReference(ref).String(), true
}
