package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocphu/sushiswap-lite/internal/wallet"
)

type recordingNavigator struct{ paths []string }

func (r *recordingNavigator) Navigate(path string) { r.paths = append(r.paths, path) }

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive("/swap/details", "/swap"))
	assert.True(t, IsActive("/swap", "/swap"))
	assert.False(t, IsActive("/swap/details", "/liquidity"))
	assert.False(t, IsActive("/", "/swap"))
}

func TestConnectionStatus(t *testing.T) {
	addr := "0xABCDEF1234567890"

	s := ConnectionStatus(wallet.Account{ChainID: 1, Address: addr}, 1, LightPalette)
	assert.True(t, s.Connected)
	assert.Equal(t, "0xABCD...7890", s.Text)
	assert.Equal(t, LightPalette.Positive, s.Color)

	s = ConnectionStatus(wallet.Account{ChainID: 4, Address: addr}, 1, LightPalette)
	assert.False(t, s.Connected)
	assert.Equal(t, "Not connected", s.Text)
	assert.Equal(t, LightPalette.TextLight, s.Color)

	s = ConnectionStatus(wallet.Account{ChainID: 1}, 1, LightPalette)
	assert.False(t, s.Connected)
	assert.Equal(t, NotConnected, s.Text)

	s = ConnectionStatus(wallet.Account{ChainID: 1, Address: addr, Name: "vitalik.eth"}, 1, DarkPalette)
	assert.Equal(t, "vitalik.eth", s.Text)
	assert.Equal(t, DarkPalette.Positive, s.Color)
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0xABCD...7890", ShortAddress("0xABCDEF1234567890"))
	assert.Equal(t, "0xABCD...EF12", ShortAddress("0xABCDEF12"))
	assert.Equal(t, "0x1234...7890", ShortAddress("0x12347890"))
	assert.Equal(t, "0x1234", ShortAddress("0x1234"))
}

func TestOverlay_Hidden(t *testing.T) {
	o := New(nil, 1, nil)
	v := o.View("/swap", wallet.Account{ChainID: 1, Address: "0xABCDEF1234567890"})
	assert.False(t, v.Visible)
	assert.Empty(t, v.Items)
}

func TestOverlay_View(t *testing.T) {
	o := New(nil, 1, nil)
	o.SetExpanded(true)

	v := o.View("/swap/details", wallet.Account{ChainID: 1, Address: "0xABCDEF1234567890"})
	assert.True(t, v.Visible)
	assert.Equal(t, "right", v.Edge)
	assert.Equal(t, "0xABCD...7890", v.Status.Text)
	require.Len(t, v.Items, 4)

	assert.Equal(t, "Swap", v.Items[0].Title)
	assert.True(t, v.Items[0].Active)
	assert.Equal(t, LightPalette.TextDark, v.Items[0].Color)
	for _, it := range v.Items[1:] {
		assert.False(t, it.Active, it.Path)
		assert.Equal(t, LightPalette.TextLight, it.Color)
	}
}

func TestOverlay_TapCollapsesOnce(t *testing.T) {
	collapsed := 0
	o := New(nil, 1, func() { collapsed++ })
	o.SetExpanded(true)

	o.Tap(Tap{Target: TargetBackground})
	assert.Equal(t, 1, collapsed)

	o.Tap(Tap{Target: TargetClose})
	assert.Equal(t, 2, collapsed)

	o.Tap(Tap{Target: TargetThemeToggle})
	o.Tap(Tap{Target: TargetItem, Path: "/swap"})
	assert.Equal(t, 2, collapsed, "interactive children do not collapse")
}

func TestOverlay_TapWhileHidden(t *testing.T) {
	collapsed := 0
	o := New(nil, 1, func() { collapsed++ })
	o.Tap(Tap{Target: TargetBackground})
	o.Tap(Tap{Target: TargetThemeToggle})
	assert.Zero(t, collapsed)
	assert.False(t, o.Dark())
}

func TestOverlay_ThemeToggle(t *testing.T) {
	o := New(nil, 1, nil)
	o.SetExpanded(true)

	o.Tap(Tap{Target: TargetThemeToggle})
	assert.True(t, o.Dark())
	v := o.View("/", wallet.Account{})
	assert.Equal(t, DarkPalette, v.Palette)

	o.Tap(Tap{Target: TargetThemeToggle})
	assert.False(t, o.Dark())
}

func TestOverlay_Navigate(t *testing.T) {
	nav := &recordingNavigator{}
	o := New([]Item{{Title: "Swap", Path: "/swap"}}, 1, nil)
	o.Navigator = nav
	o.SetExpanded(true)

	o.Tap(Tap{Target: TargetItem, Path: "/swap"})
	assert.Equal(t, []string{"/swap"}, nav.paths)
}

func TestParseTarget(t *testing.T) {
	for name, want := range map[string]Target{
		"background": TargetBackground,
		"close":      TargetClose,
		"theme":      TargetThemeToggle,
		"item":       TargetItem,
	} {
		got, ok := ParseTarget(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := ParseTarget("swipe")
	assert.False(t, ok)
}

func TestNavigatorFunc(t *testing.T) {
	var got string
	o := New(nil, 1, nil)
	o.Navigator = NavigatorFunc(func(p string) { got = p })
	o.SetExpanded(true)

	o.Tap(Tap{Target: TargetItem, Path: "/migrate"})
	assert.Equal(t, "/migrate", got)
}
