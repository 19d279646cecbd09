// Package repository keeps the dev server's catalog, users, carts, coupons, orders,
// favorites and addresses in memory. Every returned value is a copy.
package repository

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	inErrors "github.com/Alturino/storefront/devserver/internal/errors"
)

type Queries struct {
	products    map[string]Product
	coupons     map[string]Coupon
	users       map[string]User
	carts       map[uuid.UUID]Cart
	usedCoupons map[uuid.UUID]map[string]bool
	orders      map[uuid.UUID][]Order
	favorites   map[uuid.UUID][]string
	addresses   map[uuid.UUID][]Address
	mu          sync.RWMutex
}

func New(now time.Time) *Queries {
	return &Queries{
		products:    seedProducts(),
		coupons:     seedCoupons(now),
		users:       map[string]User{},
		carts:       map[uuid.UUID]Cart{},
		usedCoupons: map[uuid.UUID]map[string]bool{},
		orders:      map[uuid.UUID][]Order{},
		favorites:   map[uuid.UUID][]string{},
		addresses:   map[uuid.UUID][]Address{},
	}
}

func (q *Queries) FindProductByID(_ context.Context, id string) (Product, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	product, ok := q.products[id]
	if !ok {
		return Product{}, inErrors.ErrProductNotFound
	}
	return product, nil
}

// FindProducts returns the products accepted by match ordered by id.
func (q *Queries) FindProducts(_ context.Context, match func(Product) bool) []Product {
	q.mu.RLock()
	defer q.mu.RUnlock()
	products := make([]Product, 0, len(q.products))
	for _, product := range q.products {
		if match(product) {
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

func (q *Queries) InsertUser(_ context.Context, param InsertUserParams) (User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	email := strings.ToLower(param.Email)
	if _, ok := q.users[email]; ok {
		return User{}, inErrors.ErrEmailExist
	}
	user := User{
		ID:        uuid.New(),
		Name:      param.Name,
		Email:     email,
		Password:  param.Password,
		CreatedAt: time.Now(),
	}
	q.users[email] = user
	return user, nil
}

func (q *Queries) FindUserByEmail(_ context.Context, email string) (User, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	user, ok := q.users[strings.ToLower(email)]
	if !ok {
		return User{}, inErrors.ErrUserNotFound
	}
	return user, nil
}

func (q *Queries) FindUserByID(_ context.Context, id uuid.UUID) (User, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	for _, user := range q.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, inErrors.ErrUserNotFound
}

// UpdateUser replaces the profile of param.ID. The new email must not belong to another
// user.
func (q *Queries) UpdateUser(_ context.Context, param UpdateUserParams) (User, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var (
		current User
		found   bool
	)
	for _, user := range q.users {
		if user.ID == param.ID {
			current, found = user, true
			break
		}
	}
	if !found {
		return User{}, inErrors.ErrUserNotFound
	}
	email := strings.ToLower(param.Email)
	if other, ok := q.users[email]; ok && other.ID != param.ID {
		return User{}, inErrors.ErrEmailExist
	}
	delete(q.users, current.Email)
	current.Name = param.Name
	current.Email = email
	current.PhoneNumber = param.PhoneNumber
	current.Address = param.Address
	q.users[email] = current
	return current, nil
}

// FindCartByUserID returns the user's cart, empty when they never had one.
func (q *Queries) FindCartByUserID(_ context.Context, userID uuid.UUID) Cart {
	q.mu.RLock()
	defer q.mu.RUnlock()
	cart, ok := q.carts[userID]
	if !ok {
		return Cart{UserID: userID, Items: []CartItem{}}
	}
	cart.Items = slices.Clone(cart.Items)
	return cart
}

func (q *Queries) UpsertCart(_ context.Context, cart Cart) {
	q.mu.Lock()
	defer q.mu.Unlock()
	cart.Items = slices.Clone(cart.Items)
	q.carts[cart.UserID] = cart
}

func (q *Queries) FindCouponByCode(_ context.Context, code string) (Coupon, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	coupon, ok := q.coupons[strings.ToUpper(code)]
	if !ok {
		return Coupon{}, inErrors.ErrCouponNotFound
	}
	return coupon, nil
}

func (q *Queries) ListCoupons(_ context.Context) []Coupon {
	q.mu.RLock()
	defer q.mu.RUnlock()
	coupons := make([]Coupon, 0, len(q.coupons))
	for _, coupon := range q.coupons {
		coupons = append(coupons, coupon)
	}
	sort.Slice(coupons, func(i, j int) bool { return coupons[i].Code < coupons[j].Code })
	return coupons
}

func (q *Queries) IsCouponUsed(_ context.Context, userID uuid.UUID, code string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.usedCoupons[userID][code]
}

// InsertOrder stores the order, empties the cart and marks its coupon used in one step.
func (q *Queries) InsertOrder(_ context.Context, order Order) Order {
	q.mu.Lock()
	defer q.mu.Unlock()
	order.Items = slices.Clone(order.Items)
	q.orders[order.UserID] = append(q.orders[order.UserID], order)
	q.carts[order.UserID] = Cart{UserID: order.UserID, Items: []CartItem{}}
	if order.CouponCode != "" {
		if q.usedCoupons[order.UserID] == nil {
			q.usedCoupons[order.UserID] = map[string]bool{}
		}
		q.usedCoupons[order.UserID][order.CouponCode] = true
	}
	return order
}

func (q *Queries) FindOrdersByUserID(_ context.Context, userID uuid.UUID) []Order {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return slices.Clone(q.orders[userID])
}

func (q *Queries) FindFavoritesByUserID(_ context.Context, userID uuid.UUID) []string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return slices.Clone(q.favorites[userID])
}

func (q *Queries) InsertFavorite(_ context.Context, userID uuid.UUID, productID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if slices.Contains(q.favorites[userID], productID) {
		return
	}
	q.favorites[userID] = append(q.favorites[userID], productID)
}

func (q *Queries) DeleteFavorite(_ context.Context, userID uuid.UUID, productID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.favorites[userID] = slices.DeleteFunc(
		slices.Clone(q.favorites[userID]),
		func(id string) bool { return id == productID },
	)
}

func (q *Queries) FindAddressesByUserID(_ context.Context, userID uuid.UUID) []Address {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return slices.Clone(q.addresses[userID])
}

// InsertAddress adds address to its user's book and returns the book. The first address
// of a user is always the default.
func (q *Queries) InsertAddress(_ context.Context, address Address) []Address {
	q.mu.Lock()
	defer q.mu.Unlock()
	book := slices.Clone(q.addresses[address.UserID])
	if len(book) == 0 {
		address.IsDefault = true
	}
	book = append(book, address)
	q.addresses[address.UserID] = withSingleDefault(book, address)
	return slices.Clone(q.addresses[address.UserID])
}

func (q *Queries) UpdateAddress(_ context.Context, address Address) ([]Address, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	book := slices.Clone(q.addresses[address.UserID])
	i := slices.IndexFunc(book, func(a Address) bool { return a.ID == address.ID })
	if i < 0 {
		return nil, inErrors.ErrAddressNotFound
	}
	book[i] = address
	q.addresses[address.UserID] = withSingleDefault(book, address)
	return slices.Clone(q.addresses[address.UserID]), nil
}

// DeleteAddress removes id from the user's book. When the default goes, the oldest
// remaining address takes its place.
func (q *Queries) DeleteAddress(_ context.Context, userID uuid.UUID, id uuid.UUID) ([]Address, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	book := slices.Clone(q.addresses[userID])
	i := slices.IndexFunc(book, func(a Address) bool { return a.ID == id })
	if i < 0 {
		return nil, inErrors.ErrAddressNotFound
	}
	wasDefault := book[i].IsDefault
	book = slices.Delete(book, i, i+1)
	if wasDefault && len(book) > 0 {
		book[0].IsDefault = true
	}
	q.addresses[userID] = book
	return slices.Clone(book), nil
}

// withSingleDefault clears the default flag of every other address when changed is the
// default.
func withSingleDefault(book []Address, changed Address) []Address {
	if !changed.IsDefault {
		return book
	}
	for i := range book {
		book[i].IsDefault = book[i].ID == changed.ID
	}
	return book
}
