package assets

import "fmt"

// Asset names making up a ticket set.
const (
	PageTemplateName = "page"
	ItemTemplateName = "item"
	BaseStyleName    = "normalize"
	PrintStyleName   = "paper"
	LeftLogoName     = "logo-left"
	RightLogoName    = "logo-right"
)

// TicketSet holds every asset needed to render tickets. It is loaded once at
// startup and shared read-only by all pipeline stages.
type TicketSet struct {
	PageTemplate string
	ItemTemplate string
	BaseCSS      string
	PrintCSS     string
	LeftLogo     *Image
	RightLogo    *Image
}

// LoadTicketSet loads the complete ticket set from loader.
func LoadTicketSet(loader AssetLoader) (*TicketSet, error) {
	var (
		set TicketSet
		err error
	)

	if set.PageTemplate, err = loader.LoadTemplate(PageTemplateName); err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	if set.ItemTemplate, err = loader.LoadTemplate(ItemTemplateName); err != nil {
		return nil, fmt.Errorf("loading item template: %w", err)
	}
	if set.BaseCSS, err = loader.LoadStyle(BaseStyleName); err != nil {
		return nil, fmt.Errorf("loading base style: %w", err)
	}
	if set.PrintCSS, err = loader.LoadStyle(PrintStyleName); err != nil {
		return nil, fmt.Errorf("loading print style: %w", err)
	}
	if set.LeftLogo, err = loader.LoadImage(LeftLogoName); err != nil {
		return nil, fmt.Errorf("loading left logo: %w", err)
	}
	if set.RightLogo, err = loader.LoadImage(RightLogoName); err != nil {
		return nil, fmt.Errorf("loading right logo: %w", err)
	}

	return &set, nil
}
