package types

import "fmt"

// Section is one of the site's top-level views.
type Section string

const (
	SectionHome      Section = "home"
	SectionAbout     Section = "about"
	SectionWorks     Section = "works"
	SectionMarketing Section = "marketing"
	SectionContact   Section = "contact"
	SectionAdmin     Section = "admin"
)

var sections = map[Section]struct{}{
	SectionHome:      {},
	SectionAbout:     {},
	SectionWorks:     {},
	SectionMarketing: {},
	SectionContact:   {},
	SectionAdmin:     {},
}

func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if _, ok := sections[sec]; !ok {
		return "", fmt.Errorf("%w: unknown section %q", ErrInvalidInput, s)
	}
	return sec, nil
}

// SocialKind is the closed set of social networks the contact view can link to.
type SocialKind string

const (
	SocialInstagram SocialKind = "instagram"
	SocialYouTube   SocialKind = "youtube"
	SocialVimeo     SocialKind = "vimeo"
	SocialBehance   SocialKind = "behance"
	SocialLinkedIn  SocialKind = "linkedin"
)

// SocialPresentation is what a client needs to render a link.
type SocialPresentation struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var socialPresentations = map[SocialKind]SocialPresentation{
	SocialInstagram: {Name: "Instagram", Icon: "instagram"},
	SocialYouTube:   {Name: "YouTube", Icon: "youtube"},
	SocialVimeo:     {Name: "Vimeo", Icon: "vimeo"},
	SocialBehance:   {Name: "Behance", Icon: "behance"},
	SocialLinkedIn:  {Name: "LinkedIn", Icon: "linkedin"},
}

type SocialLink struct {
	Kind SocialKind `json:"kind"`
	URL  string     `json:"url"`
	SocialPresentation
}

// NewSocialLink resolves kind through the presentation table.
func NewSocialLink(kind, url string) (SocialLink, error) {
	k := SocialKind(kind)
	p, ok := socialPresentations[k]
	if !ok {
		return SocialLink{}, fmt.Errorf("%w: unknown social kind %q", ErrInvalidInput, kind)
	}
	return SocialLink{Kind: k, URL: url, SocialPresentation: p}, nil
}
