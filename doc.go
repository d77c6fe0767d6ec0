// Package geopin is an embedded store for users and the geographic pins they
// drop. Open a Repo from a config (or a YAML file via OpenFile) and use its
// Users and Pins repositories; both are safe for concurrent use and share a
// single handle that recreates a missing or broken schema once.
//
//	repo, err := geopin.Open(ctx, database.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer repo.Close()
//
//	user := &model.User{Phone: "+1 555-0100", Name: "Alice"}
//	repo.Users.Create(ctx, user)
//	repo.Pins.Create(ctx, model.NewPin(user, 37.422, -122.084))
//	latest := repo.Pins.GetByUser(ctx, user)
package geopin
