package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errInvalidPage = errors.New("Invalid page.")

type Page struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

type pageRequest struct {
	number int
	size   int
}

func (p pageRequest) offset() int {
	return (p.number - 1) * p.size
}

func (h *Handler) pageRequest(c *fiber.Ctx) (pageRequest, error) {
	pr := pageRequest{number: 1, size: h.Cfg.App.PageSize}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return pr, errInvalidPage
		}
		pr.number = n
	}
	return pr, nil
}

// fetchPage counts the rows matched by scope, then loads the requested page
// into dest with load applied on top of scope. The first page may be empty;
// any later page past the end is invalid.
func (h *Handler) fetchPage(c *fiber.Ctx, model any, scope, load func(*gorm.DB) *gorm.DB, dest any) (int64, pageRequest, error) {
	pr, err := h.pageRequest(c)
	if err != nil {
		return 0, pr, err
	}

	ctx := c.UserContext()
	var total int64
	if err := scope(h.DB.WithContext(ctx).Model(model)).Count(&total).Error; err != nil {
		return 0, pr, err
	}
	if pr.number > 1 && int64(pr.offset()) >= total {
		return total, pr, errInvalidPage
	}

	q := load(scope(h.DB.WithContext(ctx).Model(model)))
	if err := q.Limit(pr.size).Offset(pr.offset()).Find(dest).Error; err != nil {
		return 0, pr, err
	}
	return total, pr, nil
}

func sendPage(c *fiber.Ctx, total int64, pr pageRequest, results any) error {
	page := Page{Count: total, Results: results}
	if int64(pr.number*pr.size) < total {
		next := pageURL(c, pr.number+1)
		page.Next = &next
	}
	if pr.number > 1 {
		prev := pageURL(c, pr.number-1)
		page.Previous = &prev
	}
	return c.JSON(page)
}

func pageURL(c *fiber.Ctx, number int) string {
	q := url.Values{}
	c.Request().URI().QueryArgs().VisitAll(func(k, v []byte) {
		q.Add(string(k), string(v))
	})
	if number <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u := c.BaseURL() + c.Path()
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// pageError maps a fetchPage failure to a response.
func pageError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errInvalidPage) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return err
}
