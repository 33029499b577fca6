package models

import "fmt"

// Contributor is an entry of GET /repos/{owner}/{repo}/contributors
type Contributor struct {
	Login         string `json:"login" validate:"required"`
	Contributions int    `json:"contributions" validate:"gte=0"`
	AvatarURL     string `json:"avatar_url"`
	URL           string `json:"html_url"`
}

// ContributorList is a page of contributors
type ContributorList []Contributor

// Validate checks every contributor in the list
func (l ContributorList) Validate() error {
	for idx := range l {
		if err := validate.Struct(&l[idx]); err != nil {
			return fmt.Errorf("invalid contributor payload at index %d: %w", idx, err)
		}
	}
	return nil
}
