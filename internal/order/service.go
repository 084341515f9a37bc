package order

import (
	"context"
	"time"

	"github.com/nbbcoffee/coffeehub/internal/domain"
	"github.com/nbbcoffee/coffeehub/pkg/common"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartLine is one product+quantity pair of an incoming cart.
type CartLine struct {
	ProductId int64 `json:"product_id,string" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// Service turns carts into persisted orders and answers order queries.
// All mutations run inside a single transaction per call.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Place commits a fully consistent order for the buyer or leaves the store
// untouched. Cart lines are processed in input order, the first invalid line
// aborts the whole cart.
func (s *Service) Place(ctx context.Context, buyerUsername string, lines []CartLine) (int64, error) {
	if len(lines) == 0 {
		return 0, errors.Wrap(ErrInvalidInput, "cart is empty")
	}

	var orderID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var buyer domain.User
		if err := tx.Where("username = ?", buyerUsername).First(&buyer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrapf(ErrNotFound, "buyer %q not found", buyerUsername)
			}
			return err
		}

		var total int64
		items := make([]domain.OrderItem, 0, len(lines))
		now := time.Now()

		for _, line := range lines {
			if line.Quantity <= 0 {
				return errors.Wrapf(ErrInvalidInput, "quantity for product %d must be positive", line.ProductId)
			}

			q := tx
			if tx.Dialector.Name() == "postgres" {
				// lock the stock row so concurrent carts serialize per product
				q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var product domain.Product
			if err := q.Where("id = ?", line.ProductId).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.Wrapf(ErrNotFound, "product %d not found", line.ProductId)
				}
				return err
			}

			if product.Stock < line.Quantity {
				return errors.Wrapf(ErrInsufficientStock,
					"stock for %q is not enough (remaining: %d)", product.Name, product.Stock)
			}

			if err := tx.Model(&domain.Product{}).Where("id = ?", product.ID).
				Update("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
				return err
			}

			total += product.Price * int64(line.Quantity)
			items = append(items, domain.OrderItem{
				ID:              common.UUIDint64(),
				ProductId:       product.ID,
				Quantity:        line.Quantity,
				PriceAtPurchase: product.Price,
				CreatedAt:       now,
			})
		}

		// unreachable given the empty-cart check above, kept as a guard
		if len(items) == 0 {
			return errors.Wrap(ErrInvalidInput, "no valid cart lines")
		}

		header := domain.Order{
			ID:         common.UUIDint64(),
			BuyerId:    buyer.ID,
			TotalPrice: total,
			Status:     domain.OrderPending,
			CreatedAt:  now,
		}
		if err := tx.Create(&header).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderId = header.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		orderID = header.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// ProductBrief carries the display fields of an ordered product.
type ProductBrief struct {
	Name     string `json:"name"`
	ImageUrl string `json:"image_url"`
}

// ItemView is an order line with its product display fields resolved.
type ItemView struct {
	Product         ProductBrief `json:"product"`
	ProductId       int64        `json:"product_id,string"`
	Quantity        int          `json:"quantity"`
	PriceAtPurchase int64        `json:"price_at_purchase"`
}

// View is a full order projection for list endpoints.
type View struct {
	ID         int64              `json:"id,string"`
	TotalPrice int64              `json:"total_price"`
	Status     domain.OrderStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	BuyerId    int64              `json:"buyer_id,string"`
	BuyerName  string             `json:"buyer_name,omitempty"`
	Items      []ItemView         `json:"items"`
}

type itemRow struct {
	OrderId         int64  `gorm:"column:order_id"`
	ProductId       int64  `gorm:"column:product_id"`
	Quantity        int    `gorm:"column:quantity"`
	PriceAtPurchase int64  `gorm:"column:price_at_purchase"`
	ProductName     string `gorm:"column:product_name"`
	ProductImage    string `gorm:"column:product_image"`
}

// ListByBuyer returns the buyer's orders, newest first, with items and
// product display fields resolved. An unknown buyer yields an empty list.
func (s *Service) ListByBuyer(ctx context.Context, username string) ([]View, error) {
	db := s.db.WithContext(ctx)

	var buyer domain.User
	if err := db.Where("username = ?", username).First(&buyer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []View{}, nil
		}
		return nil, err
	}

	var orders []domain.Order
	if err := db.Where("buyer_id = ?", buyer.ID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return s.buildViews(db, orders, false)
}

// ListIncoming returns every distinct order containing at least one item of
// the seller's products, newest first, with the buyer name resolved.
func (s *Service) ListIncoming(ctx context.Context, sellerUsername string) ([]View, error) {
	db := s.db.WithContext(ctx)

	var seller domain.User
	if err := db.Where("username = ?", sellerUsername).First(&seller).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "seller %q not found", sellerUsername)
		}
		return nil, err
	}

	var orders []domain.Order
	if err := db.Table("orders").
		Select("DISTINCT orders.*").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", seller.ID).
		Order("orders.created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return s.buildViews(db, orders, true)
}

// buildViews resolves items and buyer names for a page of orders with two
// batched queries instead of per-order lookups.
func (s *Service) buildViews(db *gorm.DB, orders []domain.Order, withBuyer bool) ([]View, error) {
	views := make([]View, 0, len(orders))
	if len(orders) == 0 {
		return views, nil
	}

	orderIDs := make([]int64, 0, len(orders))
	buyerIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
		buyerIDs = append(buyerIDs, o.BuyerId)
	}

	var rows []itemRow
	if err := db.Table("order_items").
		Select("order_items.order_id, order_items.product_id, order_items.quantity, order_items.price_at_purchase, products.name AS product_name, products.image_url AS product_image").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id IN ?", orderIDs).
		Order("order_items.id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	itemsByOrder := make(map[int64][]ItemView, len(orders))
	for _, r := range rows {
		itemsByOrder[r.OrderId] = append(itemsByOrder[r.OrderId], ItemView{
			Product:         ProductBrief{Name: r.ProductName, ImageUrl: r.ProductImage},
			ProductId:       r.ProductId,
			Quantity:        r.Quantity,
			PriceAtPurchase: r.PriceAtPurchase,
		})
	}

	buyerNames := map[int64]string{}
	if withBuyer {
		var buyers []domain.User
		if err := db.Where("id IN ?", buyerIDs).Find(&buyers).Error; err != nil {
			return nil, err
		}
		for _, b := range buyers {
			buyerNames[b.ID] = b.Username
		}
	}

	for _, o := range orders {
		items := itemsByOrder[o.ID]
		if items == nil {
			items = []ItemView{}
		}
		views = append(views, View{
			ID:         o.ID,
			TotalPrice: o.TotalPrice,
			Status:     o.Status,
			CreatedAt:  o.CreatedAt,
			BuyerId:    o.BuyerId,
			BuyerName:  buyerNames[o.BuyerId],
			Items:      items,
		})
	}
	return views, nil
}

// UpdateStatus sets an order's status. The status must be one of the known
// order states, there is no transition graph.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return errors.Wrapf(ErrInvalidInput, "unknown order status %q", status)
	}

	db := s.db.WithContext(ctx)
	var header domain.Order
	if err := db.Where("id = ?", orderID).First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrapf(ErrNotFound, "order %d not found", orderID)
		}
		return err
	}
	return db.Model(&domain.Order{}).Where("id = ?", orderID).
		Update("status", status).Error
}
