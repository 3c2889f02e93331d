package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anujkukreti29/mayabu/internal/domain"
)

func TestNew(t *testing.T) {
	for _, name := range []string{NameFlipkart, NameAmazon, NameCroma, NameReliance} {
		src, err := New(name, "http://localhost")
		require.NoError(t, err)
		assert.Equal(t, name, src.Name())
	}

	_, err := New("ebay", "http://localhost")
	assert.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestFlipkartFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "dell xps 13", r.URL.Query().Get("q"))
		w.Write([]byte(`{"products":[{
			"productName":"Dell XPS 13 Core i7",
			"sellingPrice":"₹51,999",
			"mrp":"₹65,999",
			"discount":"21% off",
			"rating":"4.4",
			"ratingCount":312,
			"productUrl":"https://flipkart.example/p/xps13",
			"imageUrl":"https://flipkart.example/i/xps13.jpg"
		}]}`))
	}))
	defer srv.Close()

	src := NewFlipkart(srv.URL)
	products, err := src.Fetch(context.Background(), "dell xps 13")
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Dell XPS 13 Core i7", p.Title())
	assert.Equal(t, "₹51,999", p.StringField(domain.FieldCurrentPrice))
	assert.Equal(t, "₹65,999", p.StringField(domain.FieldOriginalPrice))
	assert.Equal(t, "21% off", p.StringField(domain.FieldDiscount))
	assert.Equal(t, "4.4", p.StringField(domain.FieldRating))
	assert.Equal(t, 312, p.IntField(domain.FieldRatingCount))
	assert.Equal(t, "https://flipkart.example/p/xps13", p.StringField(domain.FieldLink))
}

func TestAmazonFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/s", r.URL.Path)
		assert.Equal(t, "dell xps 13", r.URL.Query().Get("k"))
		w.Write([]byte(`{"results":[{
			"title":"Dell XPS 13 (i7) 2022",
			"price":50999,
			"listPrice":64999,
			"savings":"Save ₹14,000",
			"stars":4.5,
			"reviewCount":1204,
			"detailPageUrl":"https://amazon.example/dp/xps13",
			"imageUrl":"https://amazon.example/i/xps13.jpg"
		}]}`))
	}))
	defer srv.Close()

	src := NewAmazon(srv.URL)
	products, err := src.Fetch(context.Background(), "dell xps 13")
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Dell XPS 13 (i7) 2022", p.Title())
	assert.Equal(t, "50999", p.StringField(domain.FieldCurrentPrice))
	assert.Equal(t, "64999", p.StringField(domain.FieldOriginalPrice))
	assert.Equal(t, "4.5", p.StringField(domain.FieldRating))
	assert.Equal(t, 1204, p.IntField(domain.FieldRatingCount))
}

func TestCromaFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/searchB", r.URL.Path)
		w.Write([]byte(`{"items":[{
			"name":"Dell XPS 13 Laptop",
			"salePrice":"52,490",
			"mrp":"66,000",
			"avgRating":4.3,
			"numReviews":87,
			"pdpUrl":"https://croma.example/p/xps13"
		}]}`))
	}))
	defer srv.Close()

	src := NewCroma(srv.URL)
	products, err := src.Fetch(context.Background(), "dell xps 13")
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Dell XPS 13 Laptop", p.Title())
	assert.Equal(t, "52,490", p.StringField(domain.FieldCurrentPrice))
	assert.Equal(t, "4.3", p.StringField(domain.FieldRating))
	// Fields the catalog never sent fall back to the unknown sentinel
	assert.Equal(t, domain.Unknown, p.StringField(domain.FieldDiscount))
	assert.Equal(t, domain.Unknown, p.StringField(domain.FieldImage))
}

func TestRelianceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"products":[{
			"displayName":"Dell XPS 13 9315",
			"offerPrice":"₹53,999",
			"price":"₹67,000",
			"rating":"4.2",
			"reviewCount":"45",
			"seoUrl":"https://reliance.example/p/xps13"
		}]}}`))
	}))
	defer srv.Close()

	src := NewRelianceDigital(srv.URL)
	products, err := src.Fetch(context.Background(), "dell xps 13")
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Dell XPS 13 9315", p.Title())
	assert.Equal(t, "₹53,999", p.StringField(domain.FieldCurrentPrice))
	assert.Equal(t, 45, p.IntField(domain.FieldRatingCount))
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewFlipkart(srv.URL)
	products, err := src.Fetch(context.Background(), "no such product")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFetchRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"products":[{"productName":"Dell XPS 13","sellingPrice":"₹51,999"}]}`))
	}))
	defer srv.Close()

	src := NewFlipkart(srv.URL)
	products, err := src.Fetch(context.Background(), "dell xps 13")
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewFlipkart(srv.URL)
	_, err := src.Fetch(context.Background(), "dell xps 13")
	assert.ErrorIs(t, err, domain.ErrSourceFailure)
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	src := NewAmazon(srv.URL)
	_, err := src.Fetch(context.Background(), "dell xps 13")
	assert.Error(t, err)
}
