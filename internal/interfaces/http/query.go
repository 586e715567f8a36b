package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ims-api/internal/application/dto"
)

func pageRequest(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 0),
	}
}

// queryBool nil si el parámetro no viene.
func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s debe ser true o false", key)
	}
	return &v, nil
}

// queryTime parsea un instante RFC3339 y lo normaliza a UTC. nil si no viene.
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s debe tener formato RFC3339 (2024-01-31T00:00:00Z)", key)
	}
	t = t.UTC()
	return &t, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func listQuery(c *fiber.Ctx) (dto.ListQuery, error) {
	active, err := queryBool(c, "isActive")
	if err != nil {
		return dto.ListQuery{}, err
	}
	return dto.ListQuery{
		PageRequest: pageRequest(c),
		Search:      strings.TrimSpace(c.Query("search")),
		IsActive:    active,
	}, nil
}

func lookupQuery(c *fiber.Ctx) (dto.LookupQuery, error) {
	active, err := queryBool(c, "activeOnly")
	if err != nil {
		return dto.LookupQuery{}, err
	}
	return dto.LookupQuery{
		Search:     strings.TrimSpace(c.Query("search")),
		ActiveOnly: active,
		Take:       c.QueryInt("take", 0),
	}, nil
}
