// Package docs POI Mashup API.
//
// Синхронизация POI из метаданных элементов контента в карты и сборка
// мэшап-карт. Регистрирует спецификацию в swag для маршрута /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Service health with dependency checks",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "healthy"},
                    "503": {"description": "degraded"}
                }
            }
        },
        "/api/v1/items/{id}/sync": {
            "post": {
                "tags": ["Sync"],
                "summary": "Synchronize metadata field with map",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SyncRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SyncResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/items/{id}/maps": {
            "get": {
                "tags": ["Maps"],
                "summary": "Get item maps",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/events/item-saved": {
            "post": {
                "tags": ["Sync"],
                "summary": "Content item saved event",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ItemSavedRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SyncResponse"}}
                }
            }
        },
        "/api/v1/events/meta-changed": {
            "post": {
                "tags": ["Sync"],
                "summary": "Metadata field changed event",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.MetaChangedRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SyncResponse"}}
                }
            }
        },
        "/api/v1/mashup": {
            "get": {
                "tags": ["Mashup"],
                "summary": "Build mashup map (query string)",
                "produces": ["application/json"],
                "parameters": [
                    {"enum": ["all", "current", "query"], "type": "string", "name": "show", "in": "query"},
                    {"type": "string", "name": "show_query", "in": "query"},
                    {"enum": ["post", "marker"], "type": "string", "name": "marker_title", "in": "query"},
                    {"enum": ["excerpt", "marker", "none"], "type": "string", "name": "marker_body", "in": "query"},
                    {"type": "boolean", "name": "marker_link", "in": "query"},
                    {"type": "array", "items": {"type": "integer"}, "name": "current_ids", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["Mashup"],
                "summary": "Build mashup map",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.MashupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.SyncRequest": {
            "type": "object",
            "required": ["field"],
            "properties": {
                "field": {"type": "string"},
                "allow_update": {"type": "boolean"}
            }
        },
        "dto.ItemSavedRequest": {
            "type": "object",
            "required": ["item_id"],
            "properties": {
                "item_id": {"type": "integer"},
                "revision": {"type": "boolean"}
            }
        },
        "dto.MetaChangedRequest": {
            "type": "object",
            "required": ["item_id", "field"],
            "properties": {
                "item_id": {"type": "integer"},
                "field": {"type": "string"}
            }
        },
        "dto.SyncResponse": {
            "type": "object",
            "properties": {
                "item_id": {"type": "integer"},
                "field": {"type": "string"},
                "outcome": {
                    "type": "object",
                    "properties": {
                        "status": {"type": "string", "enum": ["noop", "success", "success_with_errors"]},
                        "errors": {"type": "array", "items": {"type": "string"}}
                    }
                }
            }
        },
        "dto.MashupRequest": {
            "type": "object",
            "properties": {
                "shortcode": {"type": "string"},
                "widget": {"type": "boolean"},
                "show": {"type": "string", "enum": ["all", "current", "query"]},
                "show_query": {"type": "string"},
                "marker_title": {"type": "string", "enum": ["post", "marker"]},
                "marker_body": {"type": "string", "enum": ["excerpt", "marker", "none"]},
                "marker_link": {"type": "boolean"},
                "tooltips": {"type": "boolean"},
                "current_ids": {"type": "array", "items": {"type": "integer"}},
                "active_id": {"type": "integer"},
                "presentation": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "POI Mashup API",
	Description:      "Синхронизация POI из метаданных элементов контента в карты и сборка мэшап-карт.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
