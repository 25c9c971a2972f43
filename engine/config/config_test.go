package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAndRanges(t *testing.T) {
	c := NewConfig()

	assert.Equal(t, 3, c.GetInt(KeyGLContextMajorVersion))
	assert.Equal(t, 0, c.GetInt(KeyGLContextMinorVersion))
	assert.Equal(t, -1, c.GetInt(KeyAtiHacks))
	assert.Equal(t, 32, c.GetInt(KeyWindowPosY))
	assert.True(t, c.GetBool(KeyFullscreen))
	assert.False(t, c.IsSet(KeyFullscreen))

	c.SetInt(KeyGLContextMajorVersion, 9)
	assert.Equal(t, 4, c.GetInt(KeyGLContextMajorVersion), "values above the range are clamped on read")
	c.SetInt(KeyMSAALevel, -4)
	assert.Equal(t, 0, c.GetInt(KeyMSAALevel))
	assert.True(t, c.IsSet(KeyMSAALevel))
}

func TestSafeModeDefault(t *testing.T) {
	assert.Equal(t, 0, NewConfig().GetInt(KeyForceDisableGL4))
	assert.Equal(t, 1, NewConfig(WithSafeMode(true)).GetInt(KeyForceDisableGL4))
	assert.Equal(t, 0, NewConfig(WithSafeMode(true), WithValues(map[string]string{KeyForceDisableGL4: "0"})).GetInt(KeyForceDisableGL4))
}

func TestObserversOnlySeeChanges(t *testing.T) {
	c := NewConfig()

	var got []string
	id := c.Subscribe(func(key, value string) {
		// reads are allowed while the observer lock is held
		_ = c.GetBool(key)
		got = append(got, key+"="+value)
	}, KeyFullscreen, KeyWindowPosX)

	c.SetBool(KeyFullscreen, true) // equal to default, no notification
	c.SetBool(KeyFullscreen, false)
	c.SetInt(KeyWindowPosX, 100)
	c.SetInt(KeyWindowPosX, 100)
	c.SetInt(KeyMSAALevel, 4) // not subscribed

	assert.Equal(t, []string{"Fullscreen=0", "WindowPosX=100"}, got)

	c.Unsubscribe(id)
	c.SetInt(KeyWindowPosX, 5)
	assert.Len(t, got, 2)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"settings.toml", "settings.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			src := NewConfig()
			src.SetInt(KeyMSAALevel, 8)
			src.SetBool(KeyDualScreenMode, true)
			src.SetInt(KeyAtiHacks, 0)
			require.NoError(t, src.Save(path))

			dst := NewConfig()
			var changed []string
			dst.Subscribe(func(key, _ string) { changed = append(changed, key) }, KeyMSAALevel, KeyDualScreenMode, KeyAtiHacks)
			require.NoError(t, dst.Load(path))

			assert.Equal(t, 8, dst.GetInt(KeyMSAALevel))
			assert.True(t, dst.GetBool(KeyDualScreenMode))
			assert.Equal(t, 0, dst.GetInt(KeyAtiHacks))
			assert.ElementsMatch(t, []string{KeyMSAALevel, KeyDualScreenMode, KeyAtiHacks}, changed)
		})
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	c := NewConfig()
	assert.Error(t, c.Load(filepath.Join(t.TempDir(), "settings.ini")))
	assert.Error(t, c.Load(filepath.Join(t.TempDir(), "missing.toml")))
}

func TestWatchReloadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("WindowPosX = 10\n"), 0o644))

	c := NewConfig(WithFile(path))
	require.Equal(t, 10, c.GetInt(KeyWindowPosX))

	var mu sync.Mutex
	seen := make(chan string, 4)
	c.Subscribe(func(key, value string) {
		mu.Lock()
		defer mu.Unlock()
		seen <- value
	}, KeyWindowPosX)

	require.NoError(t, c.Watch(path))
	defer c.Close()

	require.NoError(t, os.WriteFile(path, []byte("WindowPosX = 250\n"), 0o644))

	select {
	case v := <-seen:
		assert.Equal(t, "250", v)
	case <-time.After(5 * time.Second):
		t.Fatal("settings change was not observed")
	}
	assert.Equal(t, 250, c.GetInt(KeyWindowPosX))
}
