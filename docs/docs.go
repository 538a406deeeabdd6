// Package docs registers the OpenAPI document for the SocialConnect API.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler
// annotations.
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
        "/api/auth/signup": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new account",
                "parameters": [
                    {"type": "string", "description": "Display name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "Biography", "name": "bio", "in": "formData"},
                    {"type": "file", "description": "Profile image", "name": "profilePicture", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Verify credentials",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Profile"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Acknowledge logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a profile",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Profile"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a profile",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Display name; empty keeps the current one", "name": "name", "in": "formData"},
                    {"type": "string", "description": "Biography; empty clears it", "name": "bio", "in": "formData"},
                    {"type": "file", "description": "Profile image", "name": "profilePicture", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/users/{id}/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List the posts of a user",
                "parameters": [
                    {"type": "integer", "description": "Author ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Viewer ID", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/view.Post"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/users/{id}/activity": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Latest activity of a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Activity"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List all posts, newest first",
                "parameters": [
                    {"type": "integer", "description": "Viewer ID", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/view.Post"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Publish a post",
                "parameters": [
                    {"type": "string", "description": "Replay protection key", "name": "Idempotency-Key", "in": "header"},
                    {"type": "integer", "description": "Author ID", "name": "userId", "in": "formData", "required": true},
                    {"type": "string", "description": "Text", "name": "content", "in": "formData"},
                    {"type": "file", "description": "Image", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/view.Post"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/posts/{postId}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Delete a post owned by the requester",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "postId", "in": "path", "required": true},
                    {"type": "integer", "description": "Requester ID", "name": "userId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/posts/{postId}/like": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Toggle a like",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "postId", "in": "path", "required": true},
                    {"description": "Liker", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.likeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.likesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/posts/{postId}/comments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List comments, newest first",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "postId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/view.Comment"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Comment on a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "postId", "in": "path", "required": true},
                    {"description": "Comment", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.commentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/view.Comment"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Activity": {
            "type": "object",
            "properties": {
                "commentId": {"type": "integer"},
                "id": {"type": "string"},
                "kind": {"type": "string"},
                "occurredAt": {"type": "string"},
                "postId": {"type": "integer"},
                "userId": {"type": "integer"}
            }
        },
        "handler.commentRequest": {
            "type": "object",
            "required": ["content", "userId"],
            "properties": {
                "content": {"type": "string", "maxLength": 500},
                "userId": {"type": "integer"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.likeRequest": {
            "type": "object",
            "required": ["userId"],
            "properties": {"userId": {"type": "integer"}}
        },
        "handler.likesResponse": {
            "type": "object",
            "properties": {"likes": {"type": "integer"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "view.Comment": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "integer"},
                "user": {"$ref": "#/definitions/view.Profile"}
            }
        },
        "view.Post": {
            "type": "object",
            "properties": {
                "comments": {"type": "array", "items": {"$ref": "#/definitions/view.Comment"}},
                "content": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "integer"},
                "imageUrl": {"type": "string"},
                "likes": {"type": "integer"},
                "user": {"$ref": "#/definitions/view.Profile"},
                "userLiked": {"type": "boolean"}
            }
        },
        "view.Profile": {
            "type": "object",
            "properties": {
                "bio": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "profilePicture": {"type": "string"}
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
	Title:            "SocialConnect API",
	Description:      "Users, posts, likes and comments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
