package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}
            }
        },
        "/encode": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["image/png", "image/bmp", "application/json"],
                "tags": ["steg"],
                "summary": "Embed a payload",
                "parameters": [
                    {"type": "file", "description": "Cover image (PNG or BMP)", "name": "image", "in": "formData", "required": true},
                    {"type": "file", "description": "Payload to hide", "name": "payload", "in": "formData", "required": true},
                    {"type": "string", "description": "Output container (png or bmp)", "name": "format", "in": "query"},
                    {"type": "boolean", "description": "zstd-compress the payload", "name": "compress", "in": "query"},
                    {"type": "boolean", "description": "Store the image and return its ID", "name": "store", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.EncodeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/decode": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["image/png", "image/bmp"],
                "produces": ["application/octet-stream"],
                "tags": ["steg"],
                "summary": "Extract a payload",
                "parameters": [
                    {"description": "Stego image", "name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}},
                    {"type": "boolean", "description": "zstd-decompress the extracted payload", "name": "compress", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/stat": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["image/png", "image/bmp"],
                "produces": ["application/json"],
                "tags": ["steg"],
                "summary": "Inspect an image",
                "parameters": [
                    {"description": "Image", "name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/artifacts/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["image/png", "image/bmp"],
                "tags": ["artifacts"],
                "summary": "Download a stored image",
                "parameters": [{"type": "string", "description": "Artifact ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["artifacts"],
                "summary": "Delete a stored image",
                "parameters": [{"type": "string", "description": "Artifact ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"}
            }
        },
        "api.EncodeResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "container": {"type": "string"},
                "payload_bytes": {"type": "integer"},
                "bits_per_pixel": {"type": "integer"},
                "data_mask": {"type": "string"},
                "start_pixel": {"type": "integer"},
                "pixels_used": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "pixelsteg REST API",
	Description:      "Hide payloads in the least-significant bits of PNG and BMP images, and recover them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
