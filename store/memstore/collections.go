package memstore

import (
	"context"
	"maps"
	"time"

	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/store"
)

type users struct{ s *Store }

func (r users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	var (
		u  models.User
		ok bool
	)
	r.s.read(func(d *data) {
		u, ok = d.users.first(func(u models.User) bool { return u.Email == email })
	})
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (r users) FindByID(_ context.Context, id models.ID) (*models.User, error) {
	var (
		u  models.User
		ok bool
	)
	r.s.read(func(d *data) { u, ok = d.users.rows[id] })
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (r users) List(_ context.Context, role models.Role) ([]models.User, error) {
	var out []models.User
	r.s.read(func(d *data) {
		out = d.users.newestFirst(func(u models.User) bool { return role == "" || u.Role == role })
	})
	return out, nil
}

func (r users) Count(ctx context.Context, role models.Role) (int64, error) {
	list, err := r.List(ctx, role)
	return int64(len(list)), err
}

func (r users) Upsert(_ context.Context, user models.User) (store.UpdateResult, error) {
	var res store.UpdateResult
	r.s.write(func(d *data) {
		existing, ok := d.users.first(func(u models.User) bool { return u.Email == user.Email })
		if !ok {
			user.ID = models.NewID()
			if user.CreatedAt.IsZero() {
				user.CreatedAt = time.Now()
			}
			d.users.rows[user.ID] = user
			res.Upserted = 1
			return
		}
		res.Matched = 1
		updated := existing
		if user.Name != "" {
			updated.Name = user.Name
		}
		if user.Image != "" {
			updated.Image = user.Image
		}
		if user.Phone != "" {
			updated.Phone = user.Phone
		}
		if updated != existing {
			d.users.rows[existing.ID] = updated
			res.Modified = 1
		}
	})
	return res, nil
}

func (r users) update(id models.ID, mutate func(u *models.User)) store.UpdateResult {
	var res store.UpdateResult
	r.s.write(func(d *data) {
		u, ok := d.users.rows[id]
		if !ok {
			return
		}
		res.Matched = 1
		before := u
		mutate(&u)
		if u != before {
			d.users.rows[id] = u
			res.Modified = 1
		}
	})
	return res
}

func (r users) SetRole(_ context.Context, id models.ID, role models.Role) (store.UpdateResult, error) {
	return r.update(id, func(u *models.User) { u.Role = role }), nil
}

func (r users) SetVerified(_ context.Context, id models.ID, verified bool) (store.UpdateResult, error) {
	return r.update(id, func(u *models.User) { u.IsVerified = verified }), nil
}

func (r users) Delete(_ context.Context, id models.ID) (int64, error) {
	var n int64
	r.s.write(func(d *data) {
		if _, ok := d.users.rows[id]; ok {
			delete(d.users.rows, id)
			n = 1
		}
	})
	return n, nil
}

type products struct{ s *Store }

func (r products) Insert(_ context.Context, p *models.Product) error {
	r.s.write(func(d *data) {
		if p.ID.IsZero() {
			p.ID = models.NewID()
		}
		d.products.rows[p.ID] = *p
	})
	return nil
}

func (r products) FindByID(_ context.Context, id models.ID) (*models.Product, error) {
	var (
		p  models.Product
		ok bool
	)
	r.s.read(func(d *data) { p, ok = d.products.rows[id] })
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (r products) List(_ context.Context, f models.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	r.s.read(func(d *data) {
		out = d.products.newestFirst(func(p models.Product) bool {
			switch {
			case f.SellerID != "" && p.SellerID != f.SellerID:
				return false
			case f.CategoryID != "" && p.CategoryID != f.CategoryID:
				return false
			case f.Status != "" && p.Status != f.Status:
				return false
			case f.Promoted != nil && p.IsPromoted != *f.Promoted:
				return false
			}
			return true
		})
	})
	return limit(out, f.Limit), nil
}

func (r products) Count(_ context.Context) (int64, error) {
	var n int64
	r.s.read(func(d *data) { n = int64(len(d.products.rows)) })
	return n, nil
}

func (r products) MarkBooked(_ context.Context, id models.ID) (store.UpdateResult, error) {
	var res store.UpdateResult
	r.s.write(func(d *data) {
		p, ok := d.products.rows[id]
		if !ok || p.Status != models.StatusAvailable {
			return
		}
		p.Status = models.StatusBooked
		d.products.rows[id] = p
		res.Matched, res.Modified = 1, 1
	})
	return res, nil
}

func (r products) SetPromoted(_ context.Context, id models.ID, sellerID string, promoted bool) (store.UpdateResult, error) {
	var res store.UpdateResult
	r.s.write(func(d *data) {
		p, ok := d.products.rows[id]
		if !ok || p.SellerID != sellerID {
			return
		}
		res.Matched = 1
		if p.IsPromoted != promoted {
			p.IsPromoted = promoted
			d.products.rows[id] = p
			res.Modified = 1
		}
	})
	return res, nil
}

func (r products) Delete(_ context.Context, id models.ID, sellerID string) (int64, error) {
	var n int64
	r.s.write(func(d *data) {
		if p, ok := d.products.rows[id]; ok && p.SellerID == sellerID {
			delete(d.products.rows, id)
			n = 1
		}
	})
	return n, nil
}

type categories struct{ s *Store }

func (r categories) Insert(_ context.Context, c *models.ProductCategory) error {
	r.s.write(func(d *data) {
		if c.ID.IsZero() {
			c.ID = models.NewID()
		}
		d.categories.rows[c.ID] = *c
	})
	return nil
}

func (r categories) FindByID(_ context.Context, id models.ID) (*models.ProductCategory, error) {
	var (
		c  models.ProductCategory
		ok bool
	)
	r.s.read(func(d *data) { c, ok = d.categories.rows[id] })
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (r categories) List(_ context.Context) ([]models.ProductCategory, error) {
	var out []models.ProductCategory
	r.s.read(func(d *data) { out = d.categories.newestFirst(nil) })
	return out, nil
}

func (r categories) Update(_ context.Context, c models.ProductCategory) (store.UpdateResult, error) {
	var res store.UpdateResult
	r.s.write(func(d *data) {
		existing, ok := d.categories.rows[c.ID]
		if !ok {
			return
		}
		res.Matched = 1
		if existing != c {
			d.categories.rows[c.ID] = c
			res.Modified = 1
		}
	})
	return res, nil
}

func (r categories) Delete(_ context.Context, id models.ID) (int64, error) {
	var n int64
	r.s.write(func(d *data) {
		if _, ok := d.categories.rows[id]; ok {
			delete(d.categories.rows, id)
			n = 1
		}
	})
	return n, nil
}

type verifications struct{ s *Store }

func (r verifications) Insert(_ context.Context, v *models.SellerVerificationRequest) error {
	r.s.write(func(d *data) {
		if v.ID.IsZero() {
			v.ID = models.NewID()
		}
		d.verifications.rows[v.ID] = *v
	})
	return nil
}

func (r verifications) find(keep func(models.SellerVerificationRequest) bool) (*models.SellerVerificationRequest, error) {
	var (
		v  models.SellerVerificationRequest
		ok bool
	)
	r.s.read(func(d *data) { v, ok = d.verifications.first(keep) })
	if !ok {
		return nil, store.ErrNotFound
	}
	return &v, nil
}

func (r verifications) FindByID(_ context.Context, id models.ID) (*models.SellerVerificationRequest, error) {
	return r.find(func(v models.SellerVerificationRequest) bool { return v.ID == id })
}

func (r verifications) FindByUserID(_ context.Context, userID string) (*models.SellerVerificationRequest, error) {
	return r.find(func(v models.SellerVerificationRequest) bool { return v.UserID == userID })
}

func (r verifications) FindByEmail(_ context.Context, email string) (*models.SellerVerificationRequest, error) {
	return r.find(func(v models.SellerVerificationRequest) bool { return v.Email == email })
}

func (r verifications) List(_ context.Context, status models.VerificationStatus) ([]models.SellerVerificationRequest, error) {
	var out []models.SellerVerificationRequest
	r.s.read(func(d *data) {
		out = d.verifications.newestFirst(func(v models.SellerVerificationRequest) bool {
			return status == "" || v.Status == status
		})
	})
	return out, nil
}

func (r verifications) SetStatus(_ context.Context, id models.ID, status models.VerificationStatus) (store.UpdateResult, error) {
	var res store.UpdateResult
	r.s.write(func(d *data) {
		v, ok := d.verifications.rows[id]
		if !ok {
			return
		}
		res.Matched = 1
		if v.Status != status {
			v.Status = status
			d.verifications.rows[id] = v
			res.Modified = 1
		}
	})
	return res, nil
}

func (r verifications) Delete(_ context.Context, id models.ID) (int64, error) {
	var n int64
	r.s.write(func(d *data) {
		if _, ok := d.verifications.rows[id]; ok {
			delete(d.verifications.rows, id)
			n = 1
		}
	})
	return n, nil
}

type bookings struct{ s *Store }

func (r bookings) Insert(_ context.Context, b *models.Booking) error {
	r.s.write(func(d *data) {
		if b.ID.IsZero() {
			b.ID = models.NewID()
		}
		d.bookings.rows[b.ID] = copyBooking(*b)
	})
	return nil
}

func (r bookings) FindByID(_ context.Context, id models.ID, email string) (*models.Booking, error) {
	var (
		b  models.Booking
		ok bool
	)
	r.s.read(func(d *data) {
		b, ok = d.bookings.rows[id]
		b.Details = maps.Clone(b.Details)
	})
	if !ok || b.Email != email {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (r bookings) ListByEmail(_ context.Context, email string) ([]models.Booking, error) {
	var out []models.Booking
	r.s.read(func(d *data) {
		out = d.bookings.newestFirst(func(b models.Booking) bool { return b.Email == email })
	})
	for i := range out {
		out[i] = copyBooking(out[i])
	}
	return out, nil
}

type wishlist struct{ s *Store }

func (r wishlist) Insert(_ context.Context, e *models.WishlistEntry) error {
	r.s.write(func(d *data) {
		if e.ID.IsZero() {
			e.ID = models.NewID()
		}
		d.wishlist.rows[e.ID] = *e
	})
	return nil
}

func (r wishlist) Exists(_ context.Context, productID, email string) (bool, error) {
	var ok bool
	r.s.read(func(d *data) {
		_, ok = d.wishlist.first(func(e models.WishlistEntry) bool {
			return e.ProductID == productID && e.Email == email
		})
	})
	return ok, nil
}

func (r wishlist) ListByEmail(_ context.Context, email string) ([]models.WishlistEntry, error) {
	var out []models.WishlistEntry
	r.s.read(func(d *data) {
		out = d.wishlist.newestFirst(func(e models.WishlistEntry) bool { return e.Email == email })
	})
	return out, nil
}

func (r wishlist) Delete(_ context.Context, id models.ID, email string) (int64, error) {
	var n int64
	r.s.write(func(d *data) {
		if e, ok := d.wishlist.rows[id]; ok && e.Email == email {
			delete(d.wishlist.rows, id)
			n = 1
		}
	})
	return n, nil
}
