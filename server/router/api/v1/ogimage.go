package v1

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/landingchat/landingchat/store"
)

const (
	ogImageWidth  = 1200
	ogImageHeight = 630
	ogTitleSize   = 50

	// ogFallbackTitle is used when the shared message cannot be resolved.
	ogFallbackTitle = "ساخته شده با هوش مصنوعی | Landing.Chat"

	// ogBackgroundAsset is looked up in the data directory.
	ogBackgroundAsset = "dynamic-opengraph.png"
)

// ShareImage handles GET /share/:uid/image: the 1200x630 social preview
// card with the chat title overlaid on the background asset.
func (s *APIV1Service) ShareImage(c echo.Context) error {
	title := ogFallbackTitle
	uid := c.Param("uid")
	if message, err := s.Store.GetMessage(c.Request().Context(), &store.FindMessage{UID: &uid}); err == nil {
		if chatRecord, err := s.Store.GetChat(c.Request().Context(), &store.FindChat{ID: &message.ChatID}); err == nil && chatRecord.Title != "" {
			title = chatRecord.Title
		}
	}

	canvas := s.ogBackground()
	drawCenteredText(canvas, title, s.ogFace())

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return s.respondError(c, err)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// ogBackground loads the background asset from the data directory, scaled
// and cropped to the card size. Without the asset the card is a plain dark
// canvas.
func (s *APIV1Service) ogBackground() *image.NRGBA {
	if s.Profile.Data != "" {
		if background, err := imaging.Open(filepath.Join(s.Profile.Data, ogBackgroundAsset)); err == nil {
			return imaging.Fill(background, ogImageWidth, ogImageHeight, imaging.Center, imaging.Lanczos)
		}
	}
	return imaging.New(ogImageWidth, ogImageHeight, color.NRGBA{R: 11, G: 11, B: 15, A: 255})
}

// ogFace resolves the title typeface once: the TTF from the profile when
// configured, a bitmap fallback otherwise.
func (s *APIV1Service) ogFace() font.Face {
	s.ogFaceOnce.Do(func() {
		s.ogTitleFace = basicfont.Face7x13

		if s.Profile.OGFontPath == "" {
			return
		}
		data, err := os.ReadFile(s.Profile.OGFontPath)
		if err != nil {
			s.logger.Warn("failed to read share image font, using fallback", "path", s.Profile.OGFontPath, "error", err)
			return
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			s.logger.Warn("failed to parse share image font, using fallback", "path", s.Profile.OGFontPath, "error", err)
			return
		}
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    ogTitleSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			s.logger.Warn("failed to build share image font face, using fallback", "error", err)
			return
		}
		s.ogTitleFace = face
	})
	return s.ogTitleFace
}

func drawCenteredText(canvas *image.NRGBA, text string, face font.Face) {
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.White),
		Face: face,
	}

	width := drawer.MeasureString(text)
	drawer.Dot = fixed.Point26_6{
		X: (fixed.I(ogImageWidth) - width) / 2,
		Y: fixed.I(ogImageHeight / 2),
	}
	drawer.DrawString(text)
}
