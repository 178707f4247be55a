package router

import (
	app "github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/internal/container"
	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/router/modules"
)

// Deps holds the services and handlers built from the container.
type Deps struct {
	Users    *app.UserService
	Profiles *app.ProfileService
	Posts    *app.PostService

	UserHandler    *handlers.UserHandler
	ProfileHandler *handlers.ProfileHandler
	PostHandler    *handlers.PostHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()
	index := container.GetProfileIndex()

	users := app.NewUserService(store.Users, store.Accounts, container.GetHasher(), container.GetJWT(), logger)
	users.AppName = cfg.AppName
	users.SiteURL = cfg.SiteURL
	users.Index = index
	if pub := container.GetRabbitPub(); pub != nil {
		users.Jobs = pub
	}

	profiles := app.NewProfileService(store.Profiles, logger)
	profiles.Index = index

	posts := app.NewPostService(store.Posts, logger)

	return Deps{
		Users:          users,
		Profiles:       profiles,
		Posts:          posts,
		UserHandler:    handlers.NewUserHandler(users, logger),
		ProfileHandler: handlers.NewProfileHandler(profiles, logger),
		PostHandler:    handlers.NewPostHandler(posts, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) Deps {
	deps := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewUserModule(deps.UserHandler, jwt))
	r.Add(modules.NewProfileModule(deps.ProfileHandler, deps.UserHandler, jwt))
	r.Add(modules.NewPostModule(deps.PostHandler, jwt))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return deps
}
