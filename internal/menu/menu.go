// Package menu is the mobile navigation overlay: a right-anchored panel with
// a theme toggle, a close control, the wallet status line and the
// navigation entries.
package menu

import (
	"strings"
	"sync"

	"github.com/quocphu/sushiswap-lite/internal/wallet"
)

const NotConnected = "Not connected"

type Item struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// DefaultItems are the entries shown when none are configured.
// Farming (/farming) is not listed.
var DefaultItems = []Item{
	{Title: "Swap", Path: "/swap"},
	{Title: "Liquidity", Path: "/liquidity"},
	{Title: "Migrate", Path: "/migrate"},
	{Title: "Staking", Path: "/staking"},
}

type Palette struct {
	Overlay   string `json:"overlay"`
	TextDark  string `json:"textDark"`
	TextLight string `json:"textLight"`
	Positive  string `json:"positive"`
}

var (
	LightPalette = Palette{Overlay: "#ffffffee", TextDark: "#333333", TextLight: "#999999", Positive: "#00d97e"}
	DarkPalette  = Palette{Overlay: "#000000ee", TextDark: "#ffffff", TextLight: "#888888", Positive: "#00d97e"}
)

func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}

// IsActive reports whether the entry for target should be highlighted while
// current is displayed. It is a plain prefix test.
func IsActive(current, target string) bool {
	return strings.HasPrefix(current, target)
}

type Status struct {
	Connected bool   `json:"connected"`
	Text      string `json:"text"`
	Color     string `json:"color"`
}

// ConnectionStatus builds the status line for acct. The wallet counts as
// connected only on the primary chain with an address.
func ConnectionStatus(acct wallet.Account, primaryChainID uint64, p Palette) Status {
	if acct.ChainID != primaryChainID || acct.Address == "" {
		return Status{Text: NotConnected, Color: p.TextLight}
	}
	text := acct.Name
	if text == "" {
		text = ShortAddress(acct.Address)
	}
	return Status{Connected: true, Text: text, Color: p.Positive}
}

// ShortAddress keeps the first 6 and last 4 characters: 0xABCD...7890.
// Strings shorter than 10 characters cannot be cut that way and are returned
// as is.
func ShortAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

type ItemView struct {
	Item
	Active bool   `json:"active"`
	Color  string `json:"color"`
}

// View is everything needed to draw the overlay, top to bottom.
type View struct {
	Visible bool       `json:"visible"`
	Edge    string     `json:"edge,omitempty"`
	Dark    bool       `json:"dark"`
	Palette Palette    `json:"palette"`
	Status  Status     `json:"status"`
	Items   []ItemView `json:"items,omitempty"`
}

type Target int

const (
	TargetBackground Target = iota
	TargetClose
	TargetThemeToggle
	TargetItem
)

type Tap struct {
	Target Target
	// Path is the entry tapped when Target is TargetItem.
	Path string
}

type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// ParseTarget maps the wire names background, close, theme and item to a
// Target.
func ParseTarget(s string) (Target, bool) {
	switch s {
	case "background":
		return TargetBackground, true
	case "close":
		return TargetClose, true
	case "theme":
		return TargetThemeToggle, true
	case "item":
		return TargetItem, true
	}
	return 0, false
}

// Overlay holds the state of one menu instance. It is safe for concurrent use.
type Overlay struct {
	Items          []Item
	PrimaryChainID uint64
	OnCollapse     func()
	Navigator      Navigator

	mu       sync.Mutex
	expanded bool
	dark     bool
}

func New(items []Item, primaryChainID uint64, onCollapse func()) *Overlay {
	if len(items) == 0 {
		items = DefaultItems
	}
	return &Overlay{Items: items, PrimaryChainID: primaryChainID, OnCollapse: onCollapse}
}

func (o *Overlay) SetExpanded(v bool) {
	o.mu.Lock()
	o.expanded = v
	o.mu.Unlock()
}

func (o *Overlay) Expanded() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.expanded
}

func (o *Overlay) SetDark(v bool) {
	o.mu.Lock()
	o.dark = v
	o.mu.Unlock()
}

func (o *Overlay) Dark() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dark
}

// View renders the overlay for the page at currentPath.
func (o *Overlay) View(currentPath string, acct wallet.Account) View {
	o.mu.Lock()
	expanded, dark := o.expanded, o.dark
	o.mu.Unlock()

	p := PaletteFor(dark)
	if !expanded {
		return View{Visible: false, Dark: dark, Palette: p}
	}

	items := make([]ItemView, 0, len(o.Items))
	for _, it := range o.Items {
		color := p.TextLight
		active := IsActive(currentPath, it.Path)
		if active {
			color = p.TextDark
		}
		items = append(items, ItemView{Item: it, Active: active, Color: color})
	}
	return View{
		Visible: true,
		Edge:    "right",
		Dark:    dark,
		Palette: p,
		Status:  ConnectionStatus(acct, o.PrimaryChainID, p),
		Items:   items,
	}
}

// Tap handles a tap inside the overlay. Background and close taps collapse
// the overlay once; taps on a hidden overlay are ignored.
func (o *Overlay) Tap(t Tap) {
	if !o.Expanded() {
		return
	}
	switch t.Target {
	case TargetBackground, TargetClose:
		if o.OnCollapse != nil {
			o.OnCollapse()
		}
	case TargetThemeToggle:
		o.mu.Lock()
		o.dark = !o.dark
		o.mu.Unlock()
	case TargetItem:
		if o.Navigator != nil && t.Path != "" {
			o.Navigator.Navigate(t.Path)
		}
	}
}
