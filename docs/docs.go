// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

// Package docs holds the Swagger document served at /swagger/*.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Service banner",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/query": {
            "post": {
                "description": "Tokenizes the text, detects a search, recommend or general intent and answers accordingly. Search reads the document store first and falls back to BaniDB.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Content"],
                "summary": "Natural language query",
                "parameters": [
                    {
                        "description": "Query text and language (en or pa)",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.QueryRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid body", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "BaniDB unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/shabad/{id}": {
            "get": {
                "description": "Reads the shabad from the document store, falling back to BaniDB and caching the result. Logs a view interaction.",
                "produces": ["application/json"],
                "tags": ["Content"],
                "summary": "Get shabad",
                "parameters": [
                    {"type": "integer", "description": "Shabad ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Shabad not found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/like/{id}": {
            "post": {
                "description": "Logs a like interaction and schedules a recommendation reweight.",
                "produces": ["application/json"],
                "tags": ["Content"],
                "summary": "Like shabad",
                "parameters": [
                    {"type": "integer", "description": "Shabad ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "500": {"description": "Like could not be recorded", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/ang/{ang}": {
            "get": {
                "description": "Reads the page from the document store, falling back to BaniDB. Logs a view_ang interaction.",
                "produces": ["application/json"],
                "tags": ["Content"],
                "summary": "Get ang",
                "parameters": [
                    {"type": "integer", "description": "Ang (page) number", "name": "ang", "in": "path", "required": true},
                    {"type": "string", "default": "G", "description": "Source ID", "name": "source", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid ang or source", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Ang not found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/random": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Content"],
                "summary": "Random shabad",
                "parameters": [
                    {"type": "string", "default": "G", "description": "Source ID", "name": "source", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid source", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "BaniDB unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/metadata": {
            "get": {
                "description": "Each listing is read from the document store and independently falls back to BaniDB.",
                "produces": ["application/json"],
                "tags": ["Content"],
                "summary": "Metadata listings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "BaniDB unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/recommend/{id}": {
            "get": {
                "description": "Ranks the cached corpus by cosine similarity to the shabad's combined text and category features, with like feedback applied.",
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Similar shabads",
                "parameters": [
                    {"type": "integer", "description": "Shabad ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 3, "description": "Number of results, capped at the configured maximum", "name": "top_n", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid ID or top_n", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Service statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Kubernetes liveness probe",
                "responses": {
                    "200": {"description": "Service is alive", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Kubernetes readiness probe",
                "responses": {
                    "200": {"description": "Service is ready", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Service is not ready", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "message": {"type": "string"}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/models.APIError"},
                "metadata": {"$ref": "#/definitions/models.Metadata"},
                "status": {"type": "string"}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "cached": {"type": "boolean"},
                "query_time_ms": {"type": "integer"},
                "timestamp": {"type": "string"}
            }
        },
        "models.QueryRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "language": {"type": "string", "enum": ["en", "pa"]},
                "text": {"type": "string", "maxLength": 500, "minLength": 1}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bani AI API",
	Description:      "Gurbani content service with BaniDB caching and content-based shabad recommendations. Every route is also served under /api/v1.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
