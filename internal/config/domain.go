package config

import "github.com/PizzaHomicide/listfill/internal/domain"

// ListDefaults converts the list section into the values payloads are built from
func (c *Config) ListDefaults() domain.ListDefaults {
	return domain.ListDefaults{
		Status:   domain.ListStatus(c.List.Status),
		Score:    c.List.Score,
		Episodes: c.List.Episodes,
		Volumes:  c.List.Volumes,
		Chapters: c.List.Chapters,
	}
}

// RandomMediaTypes returns the media types a random run cycles through
func (c *Config) RandomMediaTypes() ([]domain.MediaType, error) {
	return domain.ParseMediaTypes(c.Random.MediaTypes)
}

// ExcludedPages parses the catalog exclusion list
func (c *Config) ExcludedPages() (domain.PageRanges, error) {
	return domain.ParsePageRanges(c.Catalog.ExcludedPages)
}
