package errors

import "net/http"

var (
	ErrParseInput = New(
		"PARSE_INPUT",
		"Unable to parse input",
		http.StatusBadRequest,
	)

	ErrGeocode = New(
		"GEOCODE_FAILED",
		"Address could not be geocoded",
		http.StatusUnprocessableEntity,
	)

	ErrGeocoderUnavailable = New(
		"GEOCODER_UNAVAILABLE",
		"Geocoding service unavailable",
		http.StatusBadGateway,
	)

	ErrQueryRequired = New(
		"QUERY_REQUIRED",
		"Query specification is required for show=query",
		http.StatusBadRequest,
	)

	ErrInvalidShowMode = New(
		"INVALID_SHOW_MODE",
		"Invalid mashup show mode",
		http.StatusBadRequest,
	)

	ErrMapNotFound = New(
		"MAP_NOT_FOUND",
		"Map not found",
		http.StatusNotFound,
	)

	ErrItemNotFound = New(
		"ITEM_NOT_FOUND",
		"Content item not found",
		http.StatusNotFound,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
