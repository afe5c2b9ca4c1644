package main

import (
	"context"
	"net/http"

	"github.com/campusnex/backend/config"
	"github.com/campusnex/backend/internal/domain"
	"github.com/campusnex/backend/internal/domain/statistic"
	"github.com/campusnex/backend/internal/repository"
	"github.com/campusnex/backend/pkg/authenticator"
	"github.com/campusnex/backend/pkg/logger"
	"github.com/campusnex/backend/pkg/router"
	"github.com/campusnex/backend/pkg/xcontext"
	"github.com/campusnex/backend/pkg/xredis"
	"github.com/gorilla/sessions"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	userRepo         repository.UserRepository
	oauth2Repo       repository.OAuth2Repository
	refreshTokenRepo repository.RefreshTokenRepository
	eventRepo        repository.EventRepository
	rsvpRepo         repository.RSVPRepository
	activityRepo     repository.ActivityRepository
	userStatsRepo    repository.UserStatsRepository

	authDomain      domain.AuthDomain
	userDomain      domain.UserDomain
	eventDomain     domain.EventDomain
	statisticDomain domain.StatisticDomain

	redisClient xredis.Client
	leaderboard statistic.Leaderboard

	router *router.Router
	server *http.Server
}

func (s *srv) before(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, s.newLogger(cfg.Env))
	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	s.ctx = xcontext.WithSessionStore(s.ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	return nil
}

func (s *srv) newLogger(env string) logger.Logger {
	if env == "local" || env == "dev" {
		return logger.NewLogger(logger.DEBUG)
	}

	return logger.NewLogger(logger.INFO)
}

func (s *srv) newDatabase() *gorm.DB {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       xcontext.Configs(s.ctx).Database.ConnectionString(),
		DefaultStringSize:         256,   // default size for string fields
		DisableDatetimePrecision:  true,  // disable datetime precision, which not supported before MySQL 5.6
		DontSupportRenameIndex:    true,  // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
		DontSupportRenameColumn:   true,  // `change` when rename column, rename column not supported before MySQL 8, MariaDB
		SkipInitializeWithVersion: false, // auto configure based on currently MySQL version
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.oauth2Repo = repository.NewOAuth2Repository()
	s.refreshTokenRepo = repository.NewRefreshTokenRepository()
	s.eventRepo = repository.NewEventRepository()
	s.rsvpRepo = repository.NewRSVPRepository()
	s.activityRepo = repository.NewActivityRepository()
	s.userStatsRepo = repository.NewUserStatsRepository()
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	googleService, err := authenticator.NewOAuth2Service(s.ctx, cfg.Auth.Google)
	if err != nil {
		panic(err)
	}
	oauth2Services := []authenticator.IOAuth2Service{googleService}

	s.leaderboard = statistic.New(s.userStatsRepo, s.redisClient)

	s.authDomain = domain.NewAuthDomain(s.userRepo, s.refreshTokenRepo, s.oauth2Repo, oauth2Services)
	s.statisticDomain = domain.NewStatisticDomain(s.userRepo, s.userStatsRepo, s.activityRepo, s.leaderboard)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.statisticDomain)
	s.eventDomain = domain.NewEventDomain(s.eventRepo, s.rsvpRepo, s.userRepo, s.statisticDomain)
}
