// Package docs holds the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/materials": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pricing"],
                "summary": "List material and reference prices",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.MaterialsResult"}}}
            }
        },
        "/drawings/area": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["drawings"],
                "summary": "Detect the area of a PDF or DXF drawing",
                "parameters": [
                    {"type": "file", "description": "PDF or DXF drawing", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/extraction.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/estimates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["estimates"],
                "summary": "List saved estimates",
                "parameters": [
                    {"type": "integer", "default": 10, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.EstimateListResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["estimates"],
                "summary": "Price a furniture piece, optionally from a drawing",
                "parameters": [
                    {"type": "file", "name": "file", "in": "formData"},
                    {"type": "number", "name": "exterior_area_m2", "in": "formData"},
                    {"type": "number", "name": "exterior_length_cm", "in": "formData"},
                    {"type": "number", "name": "exterior_height_cm", "in": "formData"},
                    {"type": "string", "name": "exterior_material", "in": "formData"},
                    {"type": "number", "name": "interior_area_m2", "in": "formData"},
                    {"type": "number", "name": "interior_length_cm", "in": "formData"},
                    {"type": "number", "name": "interior_height_cm", "in": "formData"},
                    {"type": "string", "name": "interior_material", "in": "formData"},
                    {"type": "integer", "name": "drawer_count", "in": "formData"},
                    {"type": "number", "name": "manual_cost", "in": "formData"},
                    {"type": "number", "name": "commission_percent", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Estimate"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/estimates/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["estimates"],
                "summary": "Get an estimate",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Estimate"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "tags": ["estimates"],
                "summary": "Delete an estimate and its drawing",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/estimates/{id}/drawing": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["estimates"],
                "summary": "Download the stored drawing",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/estimates/{id}/drawing-url": {
            "get": {
                "produces": ["application/json"],
                "tags": ["estimates"],
                "summary": "Presigned download URL for the stored drawing",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "default": "15m", "name": "expiry", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"}
                    }
                }
            }
        },
        "extraction.Annotation": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "value": {"type": "number"},
                "unit": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "extraction.Result": {
            "type": "object",
            "properties": {
                "area_m2": {"type": "number"},
                "diagnostic": {"type": "string"},
                "format": {"type": "string"},
                "supported": {"type": "boolean"},
                "polylines": {"type": "integer"},
                "annotations": {"type": "array", "items": {"$ref": "#/definitions/extraction.Annotation"}}
            }
        },
        "model.Estimate": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "exterior_area_m2": {"type": "number"},
                "exterior_material": {"type": "string"},
                "interior_area_m2": {"type": "number"},
                "interior_material": {"type": "string"},
                "drawer_count": {"type": "integer"},
                "final_cost": {"type": "number"},
                "created_at": {"type": "string"}
            }
        },
        "service.EstimateListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Estimate"}},
                "total": {"type": "integer"}
            }
        },
        "service.MaterialsResult": {
            "type": "object",
            "properties": {
                "names": {"type": "array", "items": {"type": "string"}},
                "materials": {"type": "object", "additionalProperties": {"type": "number"}},
                "reference": {"type": "object", "additionalProperties": {"type": "number"}},
                "drawer_price": {"type": "number"}
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
	Title:            "Furniture Cost API",
	Description:      "Drawing area detection and furniture cost estimates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
