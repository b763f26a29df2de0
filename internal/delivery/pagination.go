package delivery

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// writePage slices items by the ?page= query parameter (1-based). A page
// past the end, or one that is not a number, is a 404.
func writePage[T any](c *gin.Context, log *logrus.Logger, items []T, size int) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			log.Warnf("Handler: Invalid page parameter: %s", raw)
			c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Detail: "Invalid page."})
			return
		}
		page = n
	}

	pages := (len(items) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page > pages {
		log.Warnf("Handler: Page %d out of range (%d pages)", page, pages)
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Detail: "Invalid page."})
		return
	}

	start := (page - 1) * size
	end := min(start+size, len(items))
	body := Page[T]{
		Count:   len(items),
		Results: items[start:end],
	}
	if body.Results == nil {
		body.Results = []T{}
	}
	if page < pages {
		body.Next = pageURL(c, page+1)
	}
	if page > 1 {
		body.Previous = pageURL(c, page-1)
	}
	c.JSON(http.StatusOK, body)
}

func pageURL(c *gin.Context, page int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	s := u.String()
	return &s
}
