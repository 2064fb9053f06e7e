package storefront

import (
	"io"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	models "shopfront/model"
)

// catalogFile is the seed catalog layout:
//
//	products:
//	  - title: Groundnut Oil
//	    description: Cold pressed
//	    imgSrc: /img/oil.png
//	    price: 250
type catalogFile struct {
	Products []models.ProductInput `yaml:"products"`
}

// ReadCatalog parses a YAML catalog. Unknown keys are rejected so typos do
// not silently drop fields.
func ReadCatalog(r io.Reader) ([]models.ProductInput, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, errors.Wrap(err, "parse catalog")
	}
	if len(f.Products) == 0 {
		return nil, errors.New("catalog has no products")
	}
	return f.Products, nil
}
