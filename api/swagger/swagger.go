package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MCQ Exam API",
        "description": "Accounts, AI generated question sets and timed test results",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Registration and sessions"},
        {"name": "Questions", "description": "Question set generation"},
        {"name": "Results", "description": "Saved exam results"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "A dependency is unavailable"}}
            }
        },
        "/api/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Create an account and start a session",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/UserEnvelope"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Start a session",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserEnvelope"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "End the session",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Logged out"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/api/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/generate-mcq": {
            "get": {
                "tags": ["Questions"],
                "summary": "Generation usage and remaining quota",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Questions"],
                "summary": "Generate a validated question set",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateMCQRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GenerateMCQResponse"}},
                    "400": {"description": "Invalid parameters or output", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Generation failed", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/save-test-result": {
            "post": {
                "tags": ["Results"],
                "summary": "Save an exam result",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveTestResultRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid result", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/test-results": {
            "get": {
                "tags": ["Results"],
                "summary": "List saved results newest first",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/TestResultList"}}}
            }
        },
        "/api/test-results/summary": {
            "get": {
                "tags": ["Results"],
                "summary": "Aggregate result history",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResultSummary"}}}
            }
        },
        "/api/test-results/export": {
            "get": {
                "tags": ["Results"],
                "summary": "Download result history",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "File attachment"}, "400": {"description": "Unsupported format"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "academicQualification": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "PublicUser": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "academicQualification": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "UserEnvelope": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/PublicUser"}, "message": {"type": "string"}}
        },
        "GenerateMCQRequest": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "minimum": 1, "maximum": 40, "default": 10},
                "subject": {"type": "string", "default": "General"},
                "topic": {"type": "string"},
                "difficulty": {"type": "string", "enum": ["easy", "medium", "hard"], "default": "medium"},
                "language": {"type": "string", "enum": ["english", "bengali"], "default": "bengali"},
                "examType": {"type": "string"}
            }
        },
        "Option": {
            "type": "object",
            "properties": {"label": {"type": "string", "enum": ["A", "B", "C", "D"]}, "text": {"type": "string"}}
        },
        "MCQ": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "subject": {"type": "string"},
                "topic": {"type": "string"},
                "difficulty": {"type": "string"},
                "question": {"type": "string"},
                "options": {"type": "array", "items": {"$ref": "#/definitions/Option"}},
                "correctAnswer": {"type": "string"},
                "explanation": {"type": "string"},
                "timeToSolve": {"type": "integer"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "GenerateMCQResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "mcqs": {"type": "array", "items": {"$ref": "#/definitions/MCQ"}},
                "metadata": {"type": "object"}
            }
        },
        "SaveTestResultRequest": {
            "type": "object",
            "properties": {
                "totalQuestions": {"type": "integer"},
                "correctAnswers": {"type": "integer"},
                "wrongAnswers": {"type": "integer"},
                "unanswered": {"type": "integer"},
                "score": {"type": "integer"},
                "percentage": {"type": "integer"},
                "timeTaken": {"description": "seconds or MM:SS"},
                "subject": {"type": "string"},
                "difficulty": {"type": "string"},
                "answers": {"type": "object", "additionalProperties": {"type": "string"}},
                "mcqs": {"type": "array", "items": {"$ref": "#/definitions/MCQ"}}
            }
        },
        "TestResult": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "totalQuestions": {"type": "integer"},
                "correctAnswers": {"type": "integer"},
                "wrongAnswers": {"type": "integer"},
                "unanswered": {"type": "integer"},
                "score": {"type": "integer"},
                "percentage": {"type": "integer"},
                "timeTaken": {"type": "integer"},
                "subject": {"type": "string"},
                "difficulty": {"type": "string"},
                "grade": {"type": "string"},
                "timeFormatted": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "TestResultList": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/TestResult"}},
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "ResultSummary": {
            "type": "object",
            "properties": {
                "attempts": {"type": "integer"},
                "averagePercentage": {"type": "number"},
                "bestPercentage": {"type": "integer"},
                "totalCorrect": {"type": "integer"},
                "totalQuestions": {"type": "integer"},
                "averageTimeTaken": {"type": "number"},
                "lastAttemptAt": {"type": "string", "format": "date-time"},
                "latestGrade": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "array", "items": {"type": "object"}},
                "retryAfter": {"type": "integer"},
                "resetTime": {"type": "integer"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
