package ports

import (
	"context"

	"github.com/layer-3/catalog/core"
)

// ProductRepository stores catalog products. Get, Update and Delete return
// core.ErrProductNotFound for unknown ids.
type ProductRepository interface {
	List(ctx context.Context, search string) ([]core.Product, error)
	Get(ctx context.Context, id int64) (core.Product, error)
	Create(ctx context.Context, product core.Product) (core.Product, error)
	Update(ctx context.Context, product core.Product) (core.Product, error)
	Delete(ctx context.Context, id int64) error
}
