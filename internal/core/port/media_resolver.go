package port

// MediaResolverPort превращает сырой путь из записи в абсолютный URL.
type MediaResolverPort interface {
	ResolveMediaURL(path string) (string, bool)
}
