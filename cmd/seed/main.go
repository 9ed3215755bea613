// Command seed populates the database with demo accounts, vendors and
// products for local development. It is safe to re-run: existing emails
// are skipped.
package main

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/urbancoll/artisanhub-backend/internal/config"
	"github.com/urbancoll/artisanhub-backend/internal/logx"
	"github.com/urbancoll/artisanhub-backend/internal/modules/catalog"
	"github.com/urbancoll/artisanhub-backend/internal/modules/user"
	"github.com/urbancoll/artisanhub-backend/internal/modules/vendor"
	"github.com/urbancoll/artisanhub-backend/migrations"
)

type seedProduct struct {
	name        string
	description string
	price       float64
	stock       int
	category    string
}

type seedVendor struct {
	email        string
	firstName    string
	lastName     string
	businessName string
	description  string
	products     []seedProduct
}

var vendors = []seedVendor{
	{
		email:        "amara@clayandkiln.test",
		firstName:    "Amara",
		lastName:     "Okafor",
		businessName: "Clay & Kiln",
		description:  "Hand-thrown ceramics fired in small batches",
		products: []seedProduct{
			{"Speckled Stoneware Mug", "350ml mug with a matte glaze", 24.50, 40, "ceramics"},
			{"Serving Bowl", "Large bowl, food-safe glaze", 58.00, 12, "ceramics"},
		},
	},
	{
		email:        "jonas@wovengoods.test",
		firstName:    "Jonas",
		lastName:     "Lindqvist",
		businessName: "Woven Goods",
		description:  "Flat-woven rugs and wall hangings in natural wool",
		products: []seedProduct{
			{"Wool Throw Blanket", "Undyed wool, 130x180cm", 89.99, 8, "textiles"},
			{"Woven Wall Hanging", "Small loom piece on oak dowel", 45.00, 15, "textiles"},
			{"Table Runner", "Linen blend, 40x140cm", 32.00, 20, "textiles"},
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("invalid configuration")
	}
	logx.Init(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logx.Fatal().Err(err).Msg("opening database")
	}
	defer db.Close()

	if err := migrations.Apply(db); err != nil {
		logx.Fatal().Err(err).Msg("applying migrations")
	}

	ctx := context.Background()
	users := user.NewPostgresRepository(db)
	vendorRepo := vendor.NewPostgresRepository(db)
	products := catalog.NewPostgresRepository(db)

	seedUser(ctx, users, "admin@artisanhub.test", "Ada", "Admin", user.RoleAdmin)
	seedUser(ctx, users, "customer@artisanhub.test", "Casey", "Customer", user.RoleCustomer)

	for _, sv := range vendors {
		owner := seedUser(ctx, users, sv.email, sv.firstName, sv.lastName, user.RoleVendor)
		if owner == nil {
			continue
		}

		v, err := vendorRepo.GetVendorByOwnerID(ctx, owner.ID.String())
		if err == sql.ErrNoRows {
			v = &vendor.Vendor{
				ID:           uuid.New(),
				OwnerID:      owner.ID,
				BusinessName: sv.businessName,
				Description:  sv.description,
				Commission:   0.10,
			}
			if err := vendorRepo.CreateVendor(ctx, v); err != nil {
				logx.Fatal().Err(err).Str("vendor", sv.businessName).Msg("creating vendor")
			}
			for _, sp := range sv.products {
				p := &catalog.Product{
					ID:          uuid.New(),
					VendorID:    v.ID,
					Name:        sp.name,
					Description: sp.description,
					Price:       sp.price,
					Stock:       sp.stock,
					Category:    sp.category,
				}
				if err := products.Create(ctx, p); err != nil {
					logx.Fatal().Err(err).Str("product", sp.name).Msg("creating product")
				}
			}
			logx.Info().Str("vendor", sv.businessName).Int("products", len(sv.products)).Msg("vendor seeded")
		} else if err != nil {
			logx.Fatal().Err(err).Msg("looking up vendor")
		} else {
			logx.Info().Str("vendor", sv.businessName).Msg("vendor already present, skipping")
		}
	}

	logx.Info().Msg("seed complete, all passwords are \"password123\"")
}

func seedUser(ctx context.Context, repo user.Repository, email, first, last string, role user.Role) *user.User {
	if existing, err := repo.GetUserByEmail(ctx, email); err == nil {
		logx.Info().Str("email", email).Msg("user already present, skipping")
		return existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		logx.Fatal().Err(err).Msg("hashing password")
	}
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    first,
		LastName:     last,
		Role:         role,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		logx.Fatal().Err(err).Str("email", email).Msg("creating user")
	}
	logx.Info().Str("email", email).Str("role", string(role)).Msg("user seeded")
	return u
}
