package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	models "shopfront/model"
	"shopfront/store"
)

type Service struct {
	store store.Store
	gauge ActiveProductsGauge
	log   logrus.FieldLogger
}

var _ ServiceInterface = (*Service)(nil)

// NewService wires the store and the active-product gauge. gauge and log may
// be nil.
func NewService(s store.Store, gauge ActiveProductsGauge, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: s, gauge: gauge, log: log}
}

func (s *Service) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if !in.Valid() {
		return models.Product{}, &ValidationError{Message: MsgFieldsRequired}
	}
	p, err := s.store.InsertOne(ctx, in)
	if err != nil {
		return models.Product{}, &StoreError{Op: "insert", Err: err}
	}
	s.RefreshActiveProducts(ctx)
	return p, nil
}

// BulkCreateProducts validates every element before touching the store. One
// bad element rejects the whole batch.
func (s *Service) BulkCreateProducts(ctx context.Context, in []models.ProductInput) ([]models.Product, error) {
	if len(in) == 0 {
		return nil, &ValidationError{Message: MsgArrayRequired}
	}

	var invalid []InvalidProduct
	for i, p := range in {
		if missing := p.Missing(); len(missing) > 0 {
			invalid = append(invalid, InvalidProduct{Index: i, Product: p, Missing: missing})
		}
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Message: MsgSomeInvalid, Invalid: invalid}
	}

	out, err := s.store.InsertMany(ctx, in)
	if err != nil {
		return nil, &StoreError{Op: "insert many", Err: err}
	}
	s.RefreshActiveProducts(ctx)
	return out, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	ps, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, &StoreError{Op: "find all", Err: err}
	}
	if ps == nil {
		ps = []models.Product{}
	}
	return ps, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (models.Product, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, mapStoreErr("find", err)
	}
	return p, nil
}

// UpdateProduct merges patch into the product. Fields present in the patch
// must be valid on their own; an empty patch returns the current record.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	if bad := patch.Invalid(); len(bad) > 0 {
		return models.Product{}, &ValidationError{Message: fmt.Sprintf(msgInvalidPatchFmt, strings.Join(bad, ", "))}
	}
	if patch.Empty() {
		return s.GetProduct(ctx, id)
	}
	p, err := s.store.UpdateByID(ctx, id, patch)
	if err != nil {
		return models.Product{}, mapStoreErr("update", err)
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return mapStoreErr("delete", err)
	}
	s.RefreshActiveProducts(ctx)
	return nil
}

// RefreshActiveProducts sets the gauge to the current store count. A failed
// count is logged and leaves the gauge at its previous value.
func (s *Service) RefreshActiveProducts(ctx context.Context) {
	if s.gauge == nil {
		return
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		s.log.WithError(err).Warn("count products for gauge")
		return
	}
	s.gauge.SetActiveProducts(n)
}

func mapStoreErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return &StoreError{Op: op, Err: err}
}
