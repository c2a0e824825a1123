package config

// Port of the local API server
const API_PORT = "api.port"

// Exposes Prometheus metrics (true/false)
const METRICS_ENABLED = "metrics.enabled"

// Port serving /metrics
const METRICS_PORT = "metrics.port"

// Emits performance records to CloudWatch (true/false)
const SINK_CLOUDWATCH_ENABLED = "sink.cloudwatch.enabled"

// CloudWatch namespace for custom metrics
const SINK_CLOUDWATCH_NAMESPACE = "sink.cloudwatch.namespace"

// Emits performance records to InfluxDB (true/false)
const SINK_INFLUX_ENABLED = "sink.influx.enabled"
const SINK_INFLUX_ADDRESS = "sink.influx.address"
const SINK_INFLUX_TOKEN = "sink.influx.token"
const SINK_INFLUX_ORG = "sink.influx.org"
const SINK_INFLUX_BUCKET = "sink.influx.bucket"

// Upper bound (in ms) on a single emission to the monitoring sinks
const SINK_TIMEOUT_MS = "sink.timeout_ms"

// Traces workload phases on stdout (true/false)
const TRACING_ENABLED = "tracing.enabled"

// Architecture label attached to metrics; detected from GOARCH when unset
const ARCHITECTURE = "architecture"

// Default seed for synthetic data generation
const WORKLOAD_SEED = "workload.seed"

// Log level: debug, info, warn, error
const LOGGING_LEVEL = "logging.level"

// Human-readable console logs instead of JSON (true/false)
const LOGGING_DEVELOPMENT = "logging.development"

// Minutes a report stays in the recent-invocation log
const LOGGING_EXPIRATION = "logging.expiration"
