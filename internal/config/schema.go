package config

// schemaDocument is the JSON Schema checked against the decoded YAML
// document before it is accepted, grounded on
// pkg/firewall/firewall.go's AllowTool compile-and-validate idiom (spec
// §6: "exactly these recognized top-level keys").
const schemaDocument = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "version", "deployId", "deployment", "coordinator", "roles", "components"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "pattern": "^[A-Za-z0-9]+$"},
    "version": {"type": "string"},
    "deployId": {"type": ["string", "number"]},
    "deployment": {
      "type": "object",
      "required": ["region", "s3Bucket", "s3KeyPrefix"],
      "additionalProperties": false,
      "properties": {
        "region": {"type": "string"},
        "s3Bucket": {"type": "string"},
        "s3KeyPrefix": {"type": "string"},
        "tags": {"type": "object", "additionalProperties": {"type": "string"}},
        "switchoverHook": {"type": "string"},
        "skipBuild": {"type": "boolean"},
        "skipDeploy": {"type": "boolean"}
      }
    },
    "coordinator": {
      "type": "object",
      "required": ["coordinatorConcurrency", "maxApiConcurrency", "maxInvocationCount", "minInterval"],
      "additionalProperties": false,
      "properties": {
        "coordinatorConcurrency": {"type": "integer", "minimum": 1},
        "maxApiConcurrency": {"type": "integer", "minimum": 1},
        "maxInvocationCount": {"type": "integer", "minimum": 1},
        "minInterval": {"type": "integer", "minimum": 0, "maximum": 300}
      }
    },
    "roles": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string"},
          "policy": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "components": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "kind", "worker"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string"},
          "kind": {"type": "string", "enum": ["FromMessage", "FromInvocation", "Internal"]},
          "worker": {
            "type": "object",
            "required": ["handler", "memoryMiB", "timeoutSecs", "role"],
            "additionalProperties": false,
            "properties": {
              "handler": {"type": "string"},
              "memoryMiB": {"type": "integer", "minimum": 128, "maximum": 1536},
              "timeoutSecs": {"type": "integer", "minimum": 3, "maximum": 300},
              "role": {"type": "string"}
            }
          },
          "routing": {},
          "maxConcurrency": {"type": "integer", "minimum": 1},
          "queueWaitSeconds": {"type": "integer", "minimum": 0, "maximum": 300}
        }
      }
    }
  }
}`
