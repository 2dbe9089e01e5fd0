package generator

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/phambaophuc/id-photo-studio/internal/models"
)

var promptTemplate = template.Must(template.New("prompt").Parse(
	`Transform this portrait into a high-quality, professional standard ID photo.
Subject: {{.Target}} ({{.Gender}}).
Center the face; head and shoulders fully visible; head fills 70-80% of the image height.
Background: solid flat {{.Background}} with no shadows or gradients.
Clothing: {{.Clothing}}.
Hair: {{.Hair}}.
Apply natural skin retouching at level {{.BeautyLevel}}/100 and skin brightening at level {{.SkinBrightening}}/100 while keeping the person's identity.
Additional request: {{.Custom}}.
Output one clean, sharp ID photo with even studio lighting, aspect ratio {{.Aspect}}.`))

type promptData struct {
	Target          string
	Gender          string
	Background      string
	Clothing        string
	Hair            string
	BeautyLevel     int
	SkinBrightening int
	Custom          string
	Aspect          string
}

var (
	backgroundNames = map[models.BackgroundColor]string{
		models.BackgroundBlue:     "blue",
		models.BackgroundWhite:    "white",
		models.BackgroundGrey:     "light grey",
		models.BackgroundDarkBlue: "dark blue",
	}
	clothingNames = map[models.ClothingType]string{
		models.ClothingShirt:       "a collared shirt",
		models.ClothingWhiteShirt:  "a white collared shirt",
		models.ClothingPolo:        "a polo shirt",
		models.ClothingStylish:     "a stylish blouse",
		models.ClothingPlainTee:    "a plain t-shirt",
		models.ClothingVest:        "a business suit jacket",
		models.ClothingOffice:      "office attire",
		models.ClothingWomenOffice: "a women's office suit",
		models.ClothingSchoolScarf: "a white school shirt with a red scarf",
		models.ClothingAoDai:       "a white ao dai",
		models.ClothingKRStudent1:  "a Korean school uniform with a blazer",
		models.ClothingKRStudent2:  "a Korean school uniform with a ribbon",
		models.ClothingKRStudent3:  "a Korean school uniform with a cardigan",
	}
	hairNames = map[models.HairstyleType]string{
		models.HairNeat:        "neat",
		models.HairShort:       "short",
		models.HairLong:        "long",
		models.HairLongWavy:    "long and wavy",
		models.HairTrendy:      "fashionable",
		models.HairTied:        "neatly tied back",
		models.HairTextureCrop: "a men's textured crop",
		models.HairKRLayer:     "a men's Korean layered cut",
		models.HairShortCurly:  "short and curly",
		models.HairTwoBlock:    "a short two-block cut",
	}
)

// BuildPrompt renders the instruction text sent along with the portrait.
func BuildPrompt(s models.PhotoSettings) (string, error) {
	data := promptData{
		Target:          string(s.Target),
		Gender:          string(s.Gender),
		Background:      backgroundNames[s.Background],
		Clothing:        "keep the original clothing but make it look clean and professional",
		Hair:            "keep the original hair but make it neat and tidy",
		BeautyLevel:     s.BeautyLevel,
		SkinBrightening: s.SkinBrightening,
		Custom:          "none",
		Aspect:          aspectLabel(s.Size),
	}
	if name, ok := clothingNames[s.Clothing]; ok {
		data.Clothing = "replace the clothing with " + name
	}
	if name, ok := hairNames[s.Hair]; ok {
		data.Hair = "style the hair as " + name + " and perfectly groomed"
	}
	if s.CustomDescription != "" {
		data.Custom = s.CustomDescription
	}
	if data.Background == "" {
		data.Background = "blue"
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

func aspectLabel(size models.PhotoSize) string {
	w, h := size.AspectRatio()
	d := gcd(w, h)
	return fmt.Sprintf("%d:%d", w/d, h/d)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
