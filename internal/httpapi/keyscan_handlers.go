package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nightcrawler/redis-rpc-gateway/internal/keyscan"
)

func asError(err error, target any) bool {
	return errors.As(err, target)
}

// searchURLs builds the hypermedia bundle the search-info response
// carries (spec.md §6's search-info bundle).
func searchURLs(id string) map[string]string {
	return map[string]string{
		"get_page":        fmt.Sprintf("/rpc/keys/search/%s/page/1", id),
		"refresh_ttl":     fmt.Sprintf("/rpc/keys/search/refresh-ttl/%s", id),
		"get_search_info": fmt.Sprintf("/rpc/keys/search/info/%s", id),
	}
}

func searchInfoBody(info *keyscan.SearchInfo) map[string]any {
	sorted := 0
	if info.Sorted {
		sorted = 1
	}
	return map[string]any{
		"id":          info.ID,
		"cursor":      info.Cursor,
		"sorted":      sorted,
		"pattern":     info.Pattern,
		"ttl_seconds": info.TTLSeconds,
		"results_key": info.ResultsKey,
		"timestamp":   info.Timestamp,
		"count":       info.Count,
		"urls":        searchURLs(info.ID),
	}
}

type createSearchRequest struct {
	Pattern    string `json:"pattern"`
	SortKeys   bool   `json:"sort_keys"`
	TTLSeconds int64  `json:"ttl_seconds"`
	ScanCount  int64  `json:"scan_count"`
}

// handleCreateSearch serves POST /rpc/keys/search/{redis_name}. The
// {redis_name} path segment is accepted for route-compatibility with
// spec.md §6's table; this gateway's single KeyScanEngine always scans
// its configured target pool.
func (s *Server) handleCreateSearch(c echo.Context) error {
	var req createSearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	info, err := s.scans.CreateSearch(c.Request().Context(), keyscan.CreateOptions{
		Pattern:    req.Pattern,
		SortKeys:   req.SortKeys,
		TTLSeconds: req.TTLSeconds,
		ScanCount:  req.ScanCount,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, searchInfoBody(info))
}

// handleSearchInfo serves GET /rpc/keys/search/info/{search_id}.
func (s *Server) handleSearchInfo(c echo.Context) error {
	info, err := s.scans.GetSearchInfo(c.Request().Context(), c.Param("search_id"))
	if err != nil {
		return keyscanError(err)
	}
	return c.JSON(http.StatusOK, searchInfoBody(info))
}

type refreshTTLRequest struct {
	TTLSeconds int64 `json:"ttl_seconds"`
}

// handleRefreshTTL serves POST /rpc/keys/search/refresh-ttl/{search_id}.
func (s *Server) handleRefreshTTL(c echo.Context) error {
	var req refreshTTLRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	outcomes, err := s.scans.RefreshTTL(c.Request().Context(), c.Param("search_id"), req.TTLSeconds)
	if err != nil {
		return keyscanError(err)
	}
	return c.JSON(http.StatusOK, []bool{outcomes[0], outcomes[1]})
}

// handleGetPage serves GET /rpc/keys/search/{search_id}/page/{page_number}.
func (s *Server) handleGetPage(c echo.Context) error {
	pageNumber, err := strconv.Atoi(c.Param("page_number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page_number must be an integer")
	}
	perPage, err := strconv.Atoi(c.QueryParam("per_page"))
	if err != nil {
		perPage = 10
	}

	searchID := c.Param("search_id")
	results, kerr := s.scans.GetPage(c.Request().Context(), searchID, pageNumber, perPage)
	if kerr != nil {
		return keyscanError(kerr)
	}

	info, kerr := s.scans.GetSearchInfo(c.Request().Context(), searchID)
	if kerr != nil {
		return keyscanError(kerr)
	}

	numPages := int((info.Count + int64(perPage) - 1) / int64(perPage))
	var next, previous *string
	if pageNumber < numPages {
		n := fmt.Sprintf("/rpc/keys/search/%s/page/%d?per_page=%d", searchID, pageNumber+1, perPage)
		next = &n
	}
	if pageNumber > 1 {
		p := fmt.Sprintf("/rpc/keys/search/%s/page/%d?per_page=%d", searchID, pageNumber-1, perPage)
		previous = &p
	}

	return c.JSON(http.StatusOK, map[string]any{
		"results":   results,
		"next":      next,
		"previous":  previous,
		"num_pages": numPages,
	})
}

// keyscanError maps the typed errors keyscan.Engine returns onto the
// HTTP statuses spec.md §7 names.
func keyscanError(err error) error {
	var notFound *keyscan.SearchIDNotFoundError
	var wrongSize *keyscan.WrongPageSizeError
	var wrongNumber *keyscan.WrongNumberError
	var pageNotFound *keyscan.PageNotFoundError

	switch {
	case asError(err, &notFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound.Error())
	case asError(err, &wrongSize):
		return echo.NewHTTPError(http.StatusBadRequest, wrongSize.Error())
	case asError(err, &wrongNumber):
		return echo.NewHTTPError(http.StatusBadRequest, wrongNumber.Error())
	case asError(err, &pageNotFound):
		return echo.NewHTTPError(http.StatusNotFound, pageNotFound.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
