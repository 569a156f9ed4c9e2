package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports/mocks"
	"go.trai.ch/drift/internal/engine/cache"
	"go.uber.org/mock/gomock"
)

func kindExtractor(t *testing.T, kind domain.FileKind) *mocks.MockExtractor {
	t.Helper()
	e := mocks.NewMockExtractor(gomock.NewController(t))
	e.EXPECT().Kind().Return(kind).AnyTimes()
	return e
}

func TestKindForPath(t *testing.T) {
	tests := []struct {
		path     string
		wantKind domain.FileKind
		wantOK   bool
	}{
		{path: "src/Button.tsx", wantKind: domain.KindComponent, wantOK: true},
		{path: "src/App.jsx", wantKind: domain.KindComponent, wantOK: true},
		{path: "src/Card.vue", wantKind: domain.KindComponent, wantOK: true},
		{path: "src/Badge.svelte", wantKind: domain.KindComponent, wantOK: true},
		{path: "styles/theme.css", wantKind: domain.KindStylesheet, wantOK: true},
		{path: "styles/theme.scss", wantKind: domain.KindStylesheet, wantOK: true},
		{path: "styles/old.less", wantKind: domain.KindStylesheet, wantOK: true},
		{path: "index.html", wantKind: domain.KindMarkup, wantOK: true},
		{path: "legacy.htm", wantKind: domain.KindMarkup, wantOK: true},
		{path: "src/Button.TSX", wantKind: domain.KindComponent, wantOK: true},
		{path: "util.ts", wantOK: false},
		{path: "README.md", wantOK: false},
		{path: "Makefile", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, ok := cache.KindForPath(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKind, kind)
			}
		})
	}
}

func TestRegistry_ExtractorFor(t *testing.T) {
	component := kindExtractor(t, domain.KindComponent)
	registry := cache.NewRegistry(component)

	got, err := registry.ExtractorFor("src/Button.tsx")
	require.NoError(t, err)
	assert.Same(t, component, got.(*mocks.MockExtractor))
}

func TestRegistry_UnknownExtension(t *testing.T) {
	registry := cache.NewRegistry(kindExtractor(t, domain.KindComponent))

	_, err := registry.ExtractorFor("notes.txt")
	assert.ErrorIs(t, err, domain.ErrUnknownFileKind)
}

func TestRegistry_NoExtractorForKind(t *testing.T) {
	registry := cache.NewRegistry(kindExtractor(t, domain.KindComponent))

	_, err := registry.ExtractorFor("styles/theme.css")
	assert.ErrorIs(t, err, domain.ErrNoExtractor)
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	first := kindExtractor(t, domain.KindComponent)
	second := kindExtractor(t, domain.KindComponent)
	registry := cache.NewRegistry(first, second)

	got, err := registry.ExtractorFor("src/Button.tsx")
	require.NoError(t, err)
	assert.Same(t, second, got.(*mocks.MockExtractor))
}
