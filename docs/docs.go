// Package docs holds the OpenAPI description served at /swagger.
package docs

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
		"/api/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Log in as administrator",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.LoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.LoginResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/categories": {
			"get": {
				"tags": [
					"catalog"
				],
				"summary": "List categories",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/model.Category"
							}
						}
					},
					"500": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/items": {
			"get": {
				"tags": [
					"catalog"
				],
				"summary": "List resources, instructions and software",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "category",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/model.Item"
							}
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"500": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/software/{id}": {
			"get": {
				"tags": [
					"software"
				],
				"summary": "Get software metadata",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Software"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/software/download/{id}": {
			"get": {
				"tags": [
					"software"
				],
				"summary": "Download the software binary",
				"produces": [
					"application/octet-stream"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "file",
						"schema": {
							"type": "file"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/uploads/{filename}": {
			"get": {
				"tags": [
					"images"
				],
				"summary": "Serve an uploaded image",
				"produces": [
					"image/png",
					"image/jpeg",
					"image/gif",
					"image/webp"
				],
				"parameters": [
					{
						"type": "string",
						"name": "filename",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "file",
						"schema": {
							"type": "file"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/dashboard": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "Admin dashboard check",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.MessageResponse"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					}
				}
			}
		},
		"/api/admin/me": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Current administrator",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Account"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					}
				}
			}
		},
		"/api/admin/auth/logout": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Revoke the presented token",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.MessageResponse"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"500": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/categories": {
			"get": {
				"tags": [
					"catalog"
				],
				"summary": "List categories",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/model.Category"
							}
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					}
				}
			}
		},
		"/api/admin/all-items": {
			"get": {
				"tags": [
					"catalog"
				],
				"summary": "List resources, instructions and software",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "category",
						"in": "query"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/model.Item"
							}
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/resources": {
			"post": {
				"tags": [
					"resources"
				],
				"summary": "Create a resource",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.ResourceRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/model.Resource"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/resources/{id}": {
			"get": {
				"tags": [
					"resources"
				],
				"summary": "Get a resource",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Resource"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"tags": [
					"resources"
				],
				"summary": "Update a resource",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.ResourceRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Resource"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"resources"
				],
				"summary": "Delete a resource",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.MessageResponse"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/instructions": {
			"get": {
				"tags": [
					"instructions"
				],
				"summary": "List instructions ordered by title",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "category_id",
						"in": "query"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/model.Instruction"
							}
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"tags": [
					"instructions"
				],
				"summary": "Create an instruction",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.InstructionRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/model.Instruction"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/instructions/{id}": {
			"get": {
				"tags": [
					"instructions"
				],
				"summary": "Get an instruction",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Instruction"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"tags": [
					"instructions"
				],
				"summary": "Update an instruction",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.InstructionRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Instruction"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"instructions"
				],
				"summary": "Delete an instruction",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.DeleteInstructionResponse"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/software": {
			"post": {
				"tags": [
					"software"
				],
				"summary": "Create software with its binary",
				"produces": [
					"application/json"
				],
				"consumes": [
					"multipart/form-data"
				],
				"parameters": [
					{
						"type": "file",
						"name": "file",
						"in": "formData"
					},
					{
						"type": "string",
						"name": "name",
						"in": "formData"
					},
					{
						"type": "string",
						"name": "description",
						"in": "formData"
					},
					{
						"type": "integer",
						"name": "category_id",
						"in": "formData"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/model.Software"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"500": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/software/{id}": {
			"get": {
				"tags": [
					"software"
				],
				"summary": "Get software metadata",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Software"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"tags": [
					"software"
				],
				"summary": "Update software metadata and optionally its binary",
				"produces": [
					"application/json"
				],
				"consumes": [
					"multipart/form-data"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "file",
						"name": "file",
						"in": "formData"
					},
					{
						"type": "string",
						"name": "name",
						"in": "formData"
					},
					{
						"type": "string",
						"name": "description",
						"in": "formData"
					},
					{
						"type": "integer",
						"name": "category_id",
						"in": "formData"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Software"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"software"
				],
				"summary": "Delete software and its binary",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.MessageResponse"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/software/download/{id}": {
			"get": {
				"tags": [
					"software"
				],
				"summary": "Download the software binary",
				"produces": [
					"application/octet-stream"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "file",
						"schema": {
							"type": "file"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/upload-image": {
			"post": {
				"tags": [
					"images"
				],
				"summary": "Upload an image for instructions",
				"produces": [
					"application/json"
				],
				"consumes": [
					"multipart/form-data"
				],
				"parameters": [
					{
						"type": "file",
						"name": "image",
						"in": "formData",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.UploadImageResponse"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/admin/delete-image": {
			"post": {
				"tags": [
					"images"
				],
				"summary": "Delete an uploaded image",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "payload",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.DeleteImageRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.MessageResponse"
						}
					},
					"401": {
						"description": "authentication failure",
						"schema": {
							"$ref": "#/definitions/errors.MessageResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"errors.ErrorResponse": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"error": {
					"type": "string"
				}
			}
		},
		"errors.MessageResponse": {
			"type": "object",
			"properties": {
				"msg": {
					"type": "string"
				}
			}
		},
		"handler.LoginRequest": {
			"type": "object",
			"properties": {
				"password": {
					"type": "string"
				},
				"username": {
					"type": "string"
				}
			},
			"required": [
				"password",
				"username"
			]
		},
		"handler.LoginResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				}
			}
		},
		"handler.MessageResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			}
		},
		"handler.ResourceRequest": {
			"type": "object",
			"properties": {
				"category_id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"service": {
					"type": "string"
				},
				"url": {
					"type": "string"
				}
			},
			"required": [
				"category_id",
				"name",
				"url"
			]
		},
		"handler.InstructionRequest": {
			"type": "object",
			"properties": {
				"category_id": {
					"type": "integer"
				},
				"content": {
					"type": "string"
				},
				"title": {
					"type": "string"
				}
			},
			"required": [
				"category_id",
				"content",
				"title"
			]
		},
		"handler.DeleteInstructionResponse": {
			"type": "object",
			"properties": {
				"deletedId": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"success": {
					"type": "boolean"
				}
			}
		},
		"handler.UploadImageResponse": {
			"type": "object",
			"properties": {
				"filename": {
					"type": "string"
				},
				"id": {
					"type": "integer"
				},
				"originalname": {
					"type": "string"
				},
				"url": {
					"type": "string"
				}
			}
		},
		"handler.DeleteImageRequest": {
			"type": "object",
			"properties": {
				"url": {
					"type": "string"
				}
			},
			"required": [
				"url"
			]
		},
		"model.Account": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"username": {
					"type": "string"
				}
			}
		},
		"model.Category": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				}
			}
		},
		"model.Resource": {
			"type": "object",
			"properties": {
				"category_id": {
					"type": "integer"
				},
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"service": {
					"type": "string"
				},
				"url": {
					"type": "string"
				}
			}
		},
		"model.Instruction": {
			"type": "object",
			"properties": {
				"category_id": {
					"type": "integer"
				},
				"category_name": {
					"type": "string"
				},
				"content": {
					"type": "string"
				},
				"id": {
					"type": "integer"
				},
				"title": {
					"type": "string"
				}
			}
		},
		"model.Software": {
			"type": "object",
			"properties": {
				"category_id": {
					"type": "integer"
				},
				"created_at": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"file_path": {
					"type": "string"
				},
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"model.Item": {
			"type": "object",
			"properties": {
				"category_id": {
					"type": "integer"
				},
				"content": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"file_path": {
					"type": "string"
				},
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"service": {
					"type": "string"
				},
				"type": {
					"type": "string"
				},
				"url": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and JWT token.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "OSFR Catalog API",
	Description:      "Catalog of resources, instructions and downloadable software with a JWT protected admin API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
