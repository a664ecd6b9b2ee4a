// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"
)

// hudFontURL is the virtual file the embedded Go Mono face is loaded as.
const hudFontURL = "lander-hud-mono.ttf"

// Sprite patterns, one row per string. '#' is lit, anything else is clear.
var (
	landerPattern = []string{
		"......####......",
		".....######.....",
		"....##.##.##....",
		"....########....",
		"...##########...",
		"...##########...",
		"....########....",
		".....#....#.....",
		"....#......#....",
		"...#........#...",
		"..###......###..",
	}

	flamePattern = []string{
		"..####..",
		"..####..",
		"...##...",
		"...##...",
		"....#...",
	}
)

// AssetManager builds the scene's drawables. Textures need a live OpenGL
// context, so LoadAssets is only called from Scene.Setup.
type AssetManager struct {
	lander common.Drawable
	flame  common.Drawable
	font   *common.Font
}

// NewAssetManager creates an empty asset manager.
func NewAssetManager() *AssetManager {
	return &AssetManager{}
}

// LoadAssets uploads the sprites and the HUD font.
func (am *AssetManager) LoadAssets() error {
	am.lander = convertToEngoTexture(PatternImage(landerPattern, color.RGBA{220, 220, 230, 255}))
	am.flame = convertToEngoTexture(PatternImage(flamePattern, color.RGBA{255, 160, 40, 255}))

	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(gomono.TTF)); err != nil {
		return fmt.Errorf("failed to load HUD font: %w", err)
	}
	am.font = &common.Font{
		URL:  hudFontURL,
		FG:   color.White,
		Size: 16,
	}
	if err := am.font.CreatePreloaded(); err != nil {
		return fmt.Errorf("failed to prepare HUD font: %w", err)
	}
	return nil
}

// PatternImage rasterizes a sprite pattern, one pixel per character.
func PatternImage(pattern []string, lit color.Color) *image.NRGBA {
	width := 0
	for _, row := range pattern {
		if len(row) > width {
			width = len(row)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, len(pattern)))
	for y, row := range pattern {
		for x, c := range row {
			if c == '#' {
				img.Set(x, y, lit)
			}
		}
	}
	return img
}

func convertToEngoTexture(img *image.NRGBA) common.Drawable {
	return common.NewTextureSingle(common.NewImageObject(img))
}

// Lander returns the lander sprite.
func (am *AssetManager) Lander() common.Drawable { return am.lander }

// Flame returns the exhaust sprite.
func (am *AssetManager) Flame() common.Drawable { return am.flame }

// Font returns the HUD font.
func (am *AssetManager) Font() *common.Font { return am.font }
