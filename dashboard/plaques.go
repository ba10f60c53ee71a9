package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"catalogadmin/model"
)

// PlaqueTypes are the award tiers offered when adding a plaque.
var PlaqueTypes = []string{"gold", "silver", "emerald", "sapphire", "crimson", "wooden"}

func isPlaqueType(t string) bool {
	for _, p := range PlaqueTypes {
		if strings.EqualFold(p, t) {
			return true
		}
	}
	return false
}

// NewPlaque trims and checks a plaque before it is added to an album.
func NewPlaque(plaqueType, imageURL, priceRange string) (model.Plaque, error) {
	p := model.Plaque{
		Type:       strings.ToLower(strings.TrimSpace(plaqueType)),
		ImageURL:   strings.TrimSpace(imageURL),
		PriceRange: strings.TrimSpace(priceRange),
	}
	return p, checkPlaque(p)
}

// checkPlaque guards plaques being added. Plaques already stored on an album
// are sent back as they are.
func checkPlaque(p model.Plaque) error {
	switch {
	case p.Type == "":
		return errors.New("plaque type is required")
	case !isPlaqueType(p.Type):
		return fmt.Errorf("unknown plaque type %q", p.Type)
	case p.ImageURL == "":
		return errors.New("plaque image is required")
	}
	return nil
}
