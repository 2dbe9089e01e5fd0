package models

import "fmt"

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

type TargetType string

const (
	TargetYouth TargetType = "youth"
	TargetAdult TargetType = "adult"
	TargetChild TargetType = "child"
)

type ClothingType string

const (
	ClothingOriginal    ClothingType = "original"
	ClothingShirt       ClothingType = "shirt"
	ClothingWhiteShirt  ClothingType = "white_shirt"
	ClothingPolo        ClothingType = "polo"
	ClothingStylish     ClothingType = "stylish"
	ClothingPlainTee    ClothingType = "plain_tee"
	ClothingVest        ClothingType = "vest"
	ClothingOffice      ClothingType = "office"
	ClothingWomenOffice ClothingType = "women_office"
	ClothingSchoolScarf ClothingType = "school_scarf"
	ClothingAoDai       ClothingType = "ao_dai"
	ClothingKRStudent1  ClothingType = "kr_student_1"
	ClothingKRStudent2  ClothingType = "kr_student_2"
	ClothingKRStudent3  ClothingType = "kr_student_3"
)

type HairstyleType string

const (
	HairOriginal    HairstyleType = "original"
	HairNeat        HairstyleType = "neat"
	HairShort       HairstyleType = "short"
	HairLong        HairstyleType = "long"
	HairLongWavy    HairstyleType = "long_wavy"
	HairTrendy      HairstyleType = "trendy"
	HairTied        HairstyleType = "tied"
	HairTextureCrop HairstyleType = "texture_crop"
	HairKRLayer     HairstyleType = "kr_layer"
	HairShortCurly  HairstyleType = "short_curly"
	HairTwoBlock    HairstyleType = "two_block"
)

type BackgroundColor string

const (
	BackgroundBlue     BackgroundColor = "blue"
	BackgroundWhite    BackgroundColor = "white"
	BackgroundGrey     BackgroundColor = "grey"
	BackgroundDarkBlue BackgroundColor = "dark_blue"
)

type PhotoSize string

const (
	Size3x4      PhotoSize = "3x4"
	Size4x6      PhotoSize = "4x6"
	SizePassport PhotoSize = "passport"
)

type PaperSize string

const (
	PaperA4 PaperSize = "A4"
	PaperA5 PaperSize = "A5"
	PaperA6 PaperSize = "A6"
)

// PhotoSettings is the styling configuration sent with every generation call.
type PhotoSettings struct {
	Gender            Gender          `json:"gender"`
	Target            TargetType      `json:"target"`
	Clothing          ClothingType    `json:"clothing"`
	Hair              HairstyleType   `json:"hair"`
	Background        BackgroundColor `json:"background"`
	SkinBrightening   int             `json:"skin_brightening"`
	BeautyLevel       int             `json:"beauty_level"`
	CustomDescription string          `json:"custom_description"`
	Size              PhotoSize       `json:"size"`
	PaperSize         PaperSize       `json:"paper_size"`
}

func DefaultSettings() PhotoSettings {
	return PhotoSettings{
		Gender:          GenderFemale,
		Target:          TargetYouth,
		Clothing:        ClothingWhiteShirt,
		Hair:            HairNeat,
		Background:      BackgroundBlue,
		SkinBrightening: 50,
		BeautyLevel:     50,
		Size:            Size4x6,
		PaperSize:       PaperA6,
	}
}

var (
	validGenders = map[Gender]bool{GenderFemale: true, GenderMale: true}
	validTargets = map[TargetType]bool{TargetYouth: true, TargetAdult: true, TargetChild: true}
	validClothes = map[ClothingType]bool{
		ClothingOriginal: true, ClothingShirt: true, ClothingWhiteShirt: true, ClothingPolo: true,
		ClothingStylish: true, ClothingPlainTee: true, ClothingVest: true, ClothingOffice: true,
		ClothingWomenOffice: true, ClothingSchoolScarf: true, ClothingAoDai: true,
		ClothingKRStudent1: true, ClothingKRStudent2: true, ClothingKRStudent3: true,
	}
	validHair = map[HairstyleType]bool{
		HairOriginal: true, HairNeat: true, HairShort: true, HairLong: true, HairLongWavy: true,
		HairTrendy: true, HairTied: true, HairTextureCrop: true, HairKRLayer: true,
		HairShortCurly: true, HairTwoBlock: true,
	}
	validBackgrounds = map[BackgroundColor]bool{
		BackgroundBlue: true, BackgroundWhite: true, BackgroundGrey: true, BackgroundDarkBlue: true,
	}
	validSizes  = map[PhotoSize]bool{Size3x4: true, Size4x6: true, SizePassport: true}
	validPapers = map[PaperSize]bool{PaperA4: true, PaperA5: true, PaperA6: true}
)

func (s PhotoSettings) Validate() error {
	switch {
	case !validGenders[s.Gender]:
		return fmt.Errorf("unknown gender %q", s.Gender)
	case !validTargets[s.Target]:
		return fmt.Errorf("unknown target %q", s.Target)
	case !validClothes[s.Clothing]:
		return fmt.Errorf("unknown clothing %q", s.Clothing)
	case !validHair[s.Hair]:
		return fmt.Errorf("unknown hairstyle %q", s.Hair)
	case !validBackgrounds[s.Background]:
		return fmt.Errorf("unknown background %q", s.Background)
	case !validSizes[s.Size]:
		return fmt.Errorf("unknown photo size %q", s.Size)
	case !validPapers[s.PaperSize]:
		return fmt.Errorf("unknown paper size %q", s.PaperSize)
	case s.SkinBrightening < 0 || s.SkinBrightening > 100:
		return fmt.Errorf("skin_brightening must be between 0 and 100")
	case s.BeautyLevel < 0 || s.BeautyLevel > 100:
		return fmt.Errorf("beauty_level must be between 0 and 100")
	}
	return nil
}

// ParsePhotoSize accepts the sizes offered for export; empty means the
// session's configured size.
func ParsePhotoSize(value string) (PhotoSize, error) {
	size := PhotoSize(value)
	if !validSizes[size] {
		return "", fmt.Errorf("unknown photo size %q", value)
	}
	return size, nil
}

// AspectRatio returns width and height in millimetres.
func (p PhotoSize) AspectRatio() (int, int) {
	switch p {
	case Size3x4:
		return 30, 40
	case SizePassport:
		return 35, 45
	default:
		return 40, 60
	}
}

const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)
