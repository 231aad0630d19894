// Package translate translates catalog text through an upstream endpoint,
// remembering results in an expiring cache persisted to local storage.
package translate

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"tontonin/internal/logging"
)

// SourceLanguage is the language every upstream serves text in.
const SourceLanguage = "en"

// BatchSize bounds how many translations a batch has in flight at once.
const BatchSize = 5

// keyTextLen is how much of the text goes into a cache key. Long texts that
// share this prefix share a cache entry.
const keyTextLen = 100

// Client performs a single upstream translation.
type Client interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Translator translates text with a cache in front of the upstream client.
// Failures never reach the caller: the original text is returned instead.
type Translator struct {
	client Client
	cache  *Cache
	logger *log.Logger
}

// New creates a Translator.
func New(client Client, cache *Cache, logger *log.Logger) *Translator {
	return &Translator{
		client: client,
		cache:  cache,
		logger: logging.OrDiscard(logger),
	}
}

// CacheKey builds the cache key for text translated into target.
func CacheKey(text, target string) string {
	runes := []rune(text)
	if len(runes) > keyTextLen {
		runes = runes[:keyTextLen]
	}
	return target + ":" + string(runes)
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return SourceLanguage
	}
	return lang
}

// NeedsTranslation reports whether text in the source language has to be
// sent anywhere to end up in target.
func NeedsTranslation(target string) bool {
	return normalizeLang(target) != SourceLanguage
}

// Translate returns text in target. Translating into the source language
// returns text immediately without consulting the cache or the network.
func (t *Translator) Translate(ctx context.Context, text, target string) string {
	target = normalizeLang(target)
	if target == SourceLanguage || strings.TrimSpace(text) == "" {
		return text
	}

	key := CacheKey(text, target)
	if cached, ok := t.cache.Get(key); ok {
		return cached
	}

	translated, err := t.client.Translate(ctx, text, SourceLanguage, target)
	if err != nil {
		t.logger.Debug("translation failed, keeping original", "target", target, "err", err)
		return text
	}

	// The caller may give up once it has its answer; the write still lands.
	if err := t.cache.Set(context.WithoutCancel(ctx), key, translated); err != nil {
		t.logger.Warn("could not persist translation", "err", err)
	}
	return translated
}

// TranslateBatch translates texts in chunks of BatchSize. Chunks run one
// after another; the texts inside a chunk are translated concurrently.
// out[i] is always the translation of texts[i].
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, target string) []string {
	out := make([]string, len(texts))
	if !NeedsTranslation(target) {
		copy(out, texts)
		return out
	}

	offset := 0
	for _, chunk := range lo.Chunk(texts, BatchSize) {
		var wg sync.WaitGroup
		for i, text := range chunk {
			wg.Add(1)
			go func(idx int, text string) {
				defer wg.Done()
				out[idx] = t.Translate(ctx, text, target)
			}(offset+i, text)
		}
		wg.Wait()
		offset += len(chunk)
	}
	return out
}
