package sources

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

// Registered catalog names.
const (
	NameFlipkart = "flipkart"
	NameAmazon   = "amazon"
	NameCroma    = "croma"
	NameReliance = "reliancedigital"
)

// New builds the client for a named catalog rooted at baseURL.
func New(name, baseURL string) (domain.Source, error) {
	switch name {
	case NameFlipkart:
		return NewFlipkart(baseURL), nil
	case NameAmazon:
		return NewAmazon(baseURL), nil
	case NameCroma:
		return NewCroma(baseURL), nil
	case NameReliance:
		return NewRelianceDigital(baseURL), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, name)
	}
}

// NewFlipkart creates the Flipkart search client.
func NewFlipkart(baseURL string) domain.Source {
	return newClient(NameFlipkart, func(query string) string {
		return fmt.Sprintf("%s/search?q=%s", baseURL, url.QueryEscape(query))
	}, parseFlipkart)
}

// NewAmazon creates the Amazon search client.
func NewAmazon(baseURL string) domain.Source {
	return newClient(NameAmazon, func(query string) string {
		return fmt.Sprintf("%s/s?k=%s", baseURL, url.QueryEscape(query))
	}, parseAmazon)
}

// NewCroma creates the Croma search client.
func NewCroma(baseURL string) domain.Source {
	return newClient(NameCroma, func(query string) string {
		return fmt.Sprintf("%s/searchB?q=%s", baseURL, url.QueryEscape(query))
	}, parseCroma)
}

// NewRelianceDigital creates the Reliance Digital search client.
func NewRelianceDigital(baseURL string) domain.Source {
	return newClient(NameReliance, func(query string) string {
		return fmt.Sprintf("%s/search?q=%s", baseURL, url.QueryEscape(query))
	}, parseReliance)
}

// flipkartPayload mirrors Flipkart's search response. Prices arrive as display
// strings ("₹51,999").
type flipkartPayload struct {
	Products []struct {
		ProductName  string `json:"productName"`
		SellingPrice string `json:"sellingPrice"`
		MRP          string `json:"mrp"`
		Discount     string `json:"discount"`
		Rating       string `json:"rating"`
		RatingCount  int    `json:"ratingCount"`
		ProductURL   string `json:"productUrl"`
		ImageURL     string `json:"imageUrl"`
	} `json:"products"`
}

func parseFlipkart(body []byte) ([]domain.RawProduct, error) {
	var payload flipkartPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	products := make([]domain.RawProduct, 0, len(payload.Products))
	for _, item := range payload.Products {
		p := domain.RawProduct{}
		setIfPresent(p, domain.FieldTitle, item.ProductName)
		setIfPresent(p, domain.FieldCurrentPrice, item.SellingPrice)
		setIfPresent(p, domain.FieldOriginalPrice, item.MRP)
		setIfPresent(p, domain.FieldDiscount, item.Discount)
		setIfPresent(p, domain.FieldRating, item.Rating)
		setIfPresent(p, domain.FieldLink, item.ProductURL)
		setIfPresent(p, domain.FieldImage, item.ImageURL)
		if item.RatingCount > 0 {
			p[domain.FieldRatingCount] = item.RatingCount
		}
		products = append(products, p)
	}
	return products, nil
}

// amazonPayload mirrors Amazon's search response. Prices are numeric paise-free
// rupee amounts; ratings are floats.
type amazonPayload struct {
	Results []struct {
		Title         string  `json:"title"`
		Price         int     `json:"price"`
		ListPrice     int     `json:"listPrice"`
		Savings       string  `json:"savings"`
		Stars         float64 `json:"stars"`
		ReviewCount   int     `json:"reviewCount"`
		DetailPageURL string  `json:"detailPageUrl"`
		ImageURL      string  `json:"imageUrl"`
	} `json:"results"`
}

func parseAmazon(body []byte) ([]domain.RawProduct, error) {
	var payload amazonPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	products := make([]domain.RawProduct, 0, len(payload.Results))
	for _, item := range payload.Results {
		p := domain.RawProduct{}
		setIfPresent(p, domain.FieldTitle, item.Title)
		if item.Price > 0 {
			p[domain.FieldCurrentPrice] = strconv.Itoa(item.Price)
		}
		if item.ListPrice > 0 {
			p[domain.FieldOriginalPrice] = strconv.Itoa(item.ListPrice)
		}
		setIfPresent(p, domain.FieldDiscount, item.Savings)
		if item.Stars > 0 {
			p[domain.FieldRating] = item.Stars
		}
		if item.ReviewCount > 0 {
			p[domain.FieldRatingCount] = item.ReviewCount
		}
		setIfPresent(p, domain.FieldLink, item.DetailPageURL)
		setIfPresent(p, domain.FieldImage, item.ImageURL)
		products = append(products, p)
	}
	return products, nil
}

// cromaPayload mirrors Croma's search response.
type cromaPayload struct {
	Items []struct {
		Name         string  `json:"name"`
		SalePrice    string  `json:"salePrice"`
		MRP          string  `json:"mrp"`
		DiscountName string  `json:"discountName"`
		AvgRating    float64 `json:"avgRating"`
		NumReviews   int     `json:"numReviews"`
		PdpURL       string  `json:"pdpUrl"`
		Image        string  `json:"image"`
	} `json:"items"`
}

func parseCroma(body []byte) ([]domain.RawProduct, error) {
	var payload cromaPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	products := make([]domain.RawProduct, 0, len(payload.Items))
	for _, item := range payload.Items {
		p := domain.RawProduct{}
		setIfPresent(p, domain.FieldTitle, item.Name)
		setIfPresent(p, domain.FieldCurrentPrice, item.SalePrice)
		setIfPresent(p, domain.FieldOriginalPrice, item.MRP)
		setIfPresent(p, domain.FieldDiscount, item.DiscountName)
		if item.AvgRating > 0 {
			p[domain.FieldRating] = item.AvgRating
		}
		if item.NumReviews > 0 {
			p[domain.FieldRatingCount] = item.NumReviews
		}
		setIfPresent(p, domain.FieldLink, item.PdpURL)
		setIfPresent(p, domain.FieldImage, item.Image)
		products = append(products, p)
	}
	return products, nil
}

// reliancePayload mirrors Reliance Digital's search response.
type reliancePayload struct {
	Data struct {
		Products []struct {
			DisplayName   string `json:"displayName"`
			OfferPrice    string `json:"offerPrice"`
			Price         string `json:"price"`
			DiscountLabel string `json:"discountLabel"`
			Rating        string `json:"rating"`
			ReviewCount   string `json:"reviewCount"`
			SeoURL        string `json:"seoUrl"`
			ImageURL      string `json:"imageUrl"`
		} `json:"products"`
	} `json:"data"`
}

func parseReliance(body []byte) ([]domain.RawProduct, error) {
	var payload reliancePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	products := make([]domain.RawProduct, 0, len(payload.Data.Products))
	for _, item := range payload.Data.Products {
		p := domain.RawProduct{}
		setIfPresent(p, domain.FieldTitle, item.DisplayName)
		setIfPresent(p, domain.FieldCurrentPrice, item.OfferPrice)
		setIfPresent(p, domain.FieldOriginalPrice, item.Price)
		setIfPresent(p, domain.FieldDiscount, item.DiscountLabel)
		setIfPresent(p, domain.FieldRating, item.Rating)
		setIfPresent(p, domain.FieldRatingCount, item.ReviewCount)
		setIfPresent(p, domain.FieldLink, item.SeoURL)
		setIfPresent(p, domain.FieldImage, item.ImageURL)
		products = append(products, p)
	}
	return products, nil
}

// setIfPresent stores value only when the source supplied it, so accessors
// fall through to the Unknown default otherwise.
func setIfPresent(p domain.RawProduct, key, value string) {
	if value != "" {
		p[key] = value
	}
}
