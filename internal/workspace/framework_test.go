package workspace

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type depSet map[string]bool

func (d depSet) HasDependency(name string) bool { return d[name] }

func TestDetectFramework(t *testing.T) {
	tests := []struct {
		name string
		deps depSet
		want Framework
	}{
		{"next", depSet{"next": true, "react": true}, FrameworkNext},
		{"react router wins over vite", depSet{"vite": true, "@react-router/dev": true}, FrameworkReactRouter},
		{"tanstack wins over vite", depSet{"vite": true, "@tanstack/react-start": true}, FrameworkTanstackStart},
		{"plain vite", depSet{"vite": true}, FrameworkViteReact},
		{"nothing", depSet{"react": true}, FrameworkUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFramework(tt.deps))
		})
	}
}

func TestParseFramework(t *testing.T) {
	f, err := ParseFramework("Next")
	require.NoError(t, err)
	assert.Equal(t, FrameworkNext, f)

	f, err = ParseFramework("react-router")
	require.NoError(t, err)
	assert.Equal(t, FrameworkReactRouter, f)

	_, err = ParseFramework("svelte")
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	root := "/project"

	t.Run("next pages router", func(t *testing.T) {
		cfg, err := DefaultConfig(FrameworkNext, afero.NewMemMapFs(), root)
		require.NoError(t, err)
		assert.Equal(t, "styles/globals.css", cfg.Tailwind.CSS)
		assert.Equal(t, "components/ui", cfg.Aliases.Components.Path())
		assert.Equal(t, "lib/utils", cfg.Aliases.Utils.Path())
		assert.Equal(t, "@", cfg.AliasPrefixes.Components)
	})

	t.Run("next app router", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, fsys.MkdirAll(filepath.Join(root, "app"), 0755))
		cfg, err := DefaultConfig(FrameworkNext, fsys, root)
		require.NoError(t, err)
		assert.Equal(t, "app/globals.css", cfg.Tailwind.CSS)
	})

	t.Run("react router uses tilde", func(t *testing.T) {
		cfg, err := DefaultConfig(FrameworkReactRouter, afero.NewMemMapFs(), root)
		require.NoError(t, err)
		assert.Equal(t, "app/app.css", cfg.Tailwind.CSS)
		assert.Equal(t, "app/components/ui", cfg.Aliases.Components.Path())
		assert.Equal(t, "~", cfg.ComponentPrefix())
	})

	t.Run("tanstack picks existing stylesheet", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(root, "src", "index.css"), []byte(""), 0644))
		cfg, err := DefaultConfig(FrameworkTanstackStart, fsys, root)
		require.NoError(t, err)
		assert.Equal(t, "src/index.css", cfg.Tailwind.CSS)
	})

	t.Run("vite", func(t *testing.T) {
		cfg, err := DefaultConfig(FrameworkViteReact, afero.NewMemMapFs(), root)
		require.NoError(t, err)
		assert.Equal(t, "src/App.css", cfg.Tailwind.CSS)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := DefaultConfig(FrameworkUnknown, afero.NewMemMapFs(), root)
		assert.Error(t, err)
	})

	t.Run("defaults pass validation", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		for _, f := range Frameworks {
			cfg, err := DefaultConfig(f, fsys, root)
			require.NoError(t, err)
			_, err = Write(fsys, root, cfg)
			require.NoError(t, err)
			_, err = Load(fsys, root)
			require.NoError(t, err, f)
		}
	})
}
