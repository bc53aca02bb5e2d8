package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard-api/domain"
)

const (
	scopeCategories = "categories"
	scopeTasks      = "tasks"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, svc Services, logger *log.Logger) {
	if svc.Categories == nil || svc.Tasks == nil || svc.Stats == nil {
		panic("api.Register: services are required")
	}
	e.JSONSerializer = SonicSerializer{}
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.GET("/healthz", healthz(svc.Health))

	g := e.Group("/api", RequestBodyMiddleware(maxBodySize), RequestMetricsMiddleware(logger))
	g.GET("/", root)

	g.GET("/categories", listCategories(svc.Categories))
	g.POST("/categories", createCategory(svc.Categories, svc.Deduper, logger))
	g.DELETE("/categories/:id", deleteCategory(svc.Categories))

	g.GET("/tasks", listTasks(svc.Tasks))
	g.POST("/tasks", createTask(svc.Tasks, svc.Deduper, logger))
	g.GET("/tasks/:id", getTask(svc.Tasks))
	g.PUT("/tasks/:id", updateTask(svc.Tasks))
	g.DELETE("/tasks/:id", deleteTask(svc.Tasks))

	g.GET("/stats", getStats(svc.Stats))
}

func root(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Task Manager API"})
}

func healthz(p Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if p == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusServiceUnavailable, "store unavailable")
		}
		return c.NoContent(http.StatusOK)
	}
}

func listCategories(svc CategoryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		cats, err := svc.List(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, cats)
	}
}

func createCategory(svc CategoryService, deduper Deduper, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in domain.CategoryCreate
		if err := c.Echo().JSONSerializer.Deserialize(c, &in); err != nil {
			return err
		}
		ctx := c.Request().Context()
		key := c.Request().Header.Get(headerIdempotencyKey)
		id, replay, err := reserve(ctx, deduper, logger, scopeCategories, key)
		if err != nil {
			return err
		}
		if replay {
			cat, err := svc.Get(ctx, id)
			if err != nil {
				return replayError(err)
			}
			return c.JSON(http.StatusOK, cat)
		}
		cat, err := svc.CreateWithID(ctx, id, in)
		if err != nil {
			release(ctx, deduper, logger, scopeCategories, key)
			return err
		}
		return c.JSON(http.StatusOK, cat)
	}
}

func deleteCategory(svc CategoryService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "Category not found or cannot delete default category")
			}
			return err
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "Category deleted"})
	}
}

func listTasks(svc TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var q domain.TaskQuery
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
			return err
		}
		tasks, err := svc.List(c.Request().Context(), q)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, tasks)
	}
}

func createTask(svc TaskService, deduper Deduper, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in domain.TaskCreate
		if err := c.Echo().JSONSerializer.Deserialize(c, &in); err != nil {
			return err
		}
		ctx := c.Request().Context()
		key := c.Request().Header.Get(headerIdempotencyKey)
		id, replay, err := reserve(ctx, deduper, logger, scopeTasks, key)
		if err != nil {
			return err
		}
		if replay {
			task, err := svc.Get(ctx, id)
			if err != nil {
				return replayError(err)
			}
			return c.JSON(http.StatusOK, task)
		}
		task, err := svc.CreateWithID(ctx, id, in)
		if err != nil {
			release(ctx, deduper, logger, scopeTasks, key)
			return err
		}
		return c.JSON(http.StatusOK, task)
	}
}

func getTask(svc TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		task, err := svc.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return taskError(err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

func updateTask(svc TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch domain.TaskPatch
		if err := c.Echo().JSONSerializer.Deserialize(c, &patch); err != nil {
			return err
		}
		task, err := svc.Update(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return taskError(err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(svc TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return taskError(err)
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "Task deleted"})
	}
}

func getStats(svc StatsService) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := svc.Get(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, stats)
	}
}

func taskError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return err
}

// reserve picks the id for a new entity. With an idempotency key it either
// claims the key for a fresh id or reports the id claimed by an earlier
// request. Deduper failures only disable the replay protection.
func reserve(ctx context.Context, deduper Deduper, logger *log.Logger, scope, key string) (string, bool, error) {
	id := uuid.NewString()
	if deduper == nil || key == "" {
		return id, false, nil
	}
	if len(key) > 255 {
		return "", false, echo.NewHTTPError(http.StatusBadRequest, "idempotency key too long")
	}
	got, fresh, err := deduper.Reserve(ctx, scope, key, id)
	if err != nil {
		logger.WithError(err).WithField("scope", scope).Warn("idempotency reserve failed")
		return id, false, nil
	}
	return got, !fresh, nil
}

func release(ctx context.Context, deduper Deduper, logger *log.Logger, scope, key string) {
	if deduper == nil || key == "" {
		return
	}
	if err := deduper.Release(ctx, scope, key); err != nil {
		logger.WithError(err).WithField("scope", scope).Warn("idempotency release failed")
	}
}

// replayError covers the window where the first request holding the key has
// not stored its entity yet.
func replayError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusConflict, "request with this idempotency key is still in progress")
	}
	return err
}
