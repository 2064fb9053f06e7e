package storefront

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "shopfront/model"
)

func TestReadCatalog(t *testing.T) {
	in := `
products:
  - title: Groundnut Oil
    description: Cold pressed
    imgSrc: /img/oil.png
    price: 250
  - title: Rice
    description: Sona masoori
    imgSrc: /img/rice.png
    price: 80.5
`
	ps, err := ReadCatalog(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []models.ProductInput{
		{Title: "Groundnut Oil", Description: "Cold pressed", ImgSrc: "/img/oil.png", Price: 250},
		{Title: "Rice", Description: "Sona masoori", ImgSrc: "/img/rice.png", Price: 80.5},
	}, ps)
}

func TestReadCatalogErrors(t *testing.T) {
	for name, in := range map[string]string{
		"empty":       "",
		"no products": "products: []\n",
		"unknown key": "products:\n  - title: A\n    colour: red\n",
		"bad yaml":    "products: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCatalog(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}
