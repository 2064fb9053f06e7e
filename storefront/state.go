package storefront

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	models "shopfront/model"
)

// Status is where the catalog load stands.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// DefaultSearchDebounce is the quiet period before a search term applies.
const DefaultSearchDebounce = 500 * time.Millisecond

// Catalog is the product source the storefront loads from.
type Catalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// Options configures a Storefront. Zero values pick defaults.
type Options struct {
	SearchDebounce time.Duration
	WhatsAppNumber string
	Launcher       Launcher
	Session        SessionStore
	// OnSearch, if set, is called after a debounced term is applied.
	OnSearch func(term string)
}

// Storefront is one shopper's view: the catalog fetched once, the search
// filter over it, a cart and a wishlist. Nothing here is persisted.
type Storefront struct {
	catalog   Catalog
	opts      Options
	debouncer *Debouncer

	mu         sync.Mutex
	status     Status
	started    bool
	errMsg     string
	products   []models.Product
	searchTerm string
	cart       []models.CartLine
	wishlist   []models.WishlistEntry
}

func New(catalog Catalog, opts Options) *Storefront {
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = DefaultSearchDebounce
	}
	if opts.WhatsAppNumber == "" {
		opts.WhatsAppNumber = DefaultWhatsAppNumber
	}
	if opts.Session == nil {
		opts.Session = NewMemorySession()
	}
	return &Storefront{
		catalog:   catalog,
		opts:      opts,
		debouncer: NewDebouncer(opts.SearchDebounce),
		status:    StatusLoading,
	}
}

// Load fetches the catalog. Only the first call does anything; both outcomes
// are final for the life of the Storefront.
func (s *Storefront) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	products, err := s.catalog.ListProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusErrored
		s.errMsg = err.Error()
		return err
	}
	s.products = products
	s.status = StatusReady
	return nil
}

// Status reports the load state and, when errored, the failure message.
func (s *Storefront) Status() (Status, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.errMsg
}

// Search applies text as the filter once input has been quiet for the
// debounce delay. A newer call replaces a pending one.
func (s *Storefront) Search(text string) {
	s.debouncer.Trigger(func() {
		s.mu.Lock()
		s.searchTerm = text
		s.mu.Unlock()
		if s.opts.OnSearch != nil {
			s.opts.OnSearch(text)
		}
	})
}

// SearchTerm is the filter currently applied.
func (s *Storefront) SearchTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchTerm
}

// Products returns the cached catalog filtered by the applied search term
// (case-insensitive substring of the title). Empty until Ready.
func (s *Storefront) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	term := strings.ToLower(s.searchTerm)
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Title), term) {
			out = append(out, p)
		}
	}
	return out
}

// All returns the cached catalog, ignoring the search term.
func (s *Storefront) All() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.products...)
}

// AddToCart adds one unit of p.
func (s *Storefront) AddToCart(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].Product.ID == p.ID {
			s.cart[i].Quantity++
			return
		}
	}
	s.cart = append(s.cart, models.CartLine{Product: p, Quantity: 1})
}

// RemoveFromCart drops the whole line for id.
func (s *Storefront) RemoveFromCart(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].Product.ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

func (s *Storefront) Cart() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartLine(nil), s.cart...)
}

// AddToWishlist returns ErrAlreadyInWishlist when p is already saved.
func (s *Storefront) AddToWishlist(p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.wishlist {
		if e.Product.ID == p.ID {
			return ErrAlreadyInWishlist
		}
	}
	s.wishlist = append(s.wishlist, models.WishlistEntry{Product: p})
	return nil
}

func (s *Storefront) RemoveFromWishlist(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wishlist {
		if s.wishlist[i].Product.ID == id {
			s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
			return
		}
	}
}

func (s *Storefront) Wishlist() []models.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WishlistEntry(nil), s.wishlist...)
}

// Total is the sum of price times quantity, rounded to two places.
func (s *Storefront) Total() decimal.Decimal {
	return cartTotal(s.Cart())
}

// Greeting is "Hello, <username>!" for a logged-in shopper, "" otherwise.
func (s *Storefront) Greeting() string {
	if name, ok := s.opts.Session.Get(SessionKeyUsername); ok && name != "" {
		return "Hello, " + name + "!"
	}
	return ""
}

// Close drops a pending search.
func (s *Storefront) Close() {
	s.debouncer.Cancel()
}
