package config

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config 结构体用于存储应用程序的配置信息
type Config struct {
	DocAPIEndpoint  string // 文档数据库 Document API 端点
	DocAPIRegion    string
	AccessKeyID     string
	SecretAccessKey string
	TablePrefix     string // 表名前缀，例如 "blog/"
	JWTSecret       string
	TokenTTLHours   int // 令牌有效期（小时）
	LogLevel        string
	ServerPort      string
	ReconcileMins   int  // 计数器对账任务的执行间隔（分钟）
	Debug           bool // 是否开启调试模式
}

// AppConfig 是全局配置变量
var AppConfig Config

// Init 函数用于初始化配置
func Init() {
	// 加载 .env 文件
	err := godotenv.Load()
	if err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	// 从环境变量中读取配置
	AppConfig = Config{
		DocAPIEndpoint:  getEnv("DOC_API_ENDPOINT", ""),
		DocAPIRegion:    getEnv("DOC_API_REGION", "ru-central1"),
		AccessKeyID:     getEnv("ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("SECRET_ACCESS_KEY", ""),
		TablePrefix:     getEnv("TABLE_PREFIX", "blog/"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		TokenTTLHours:   getEnvAsInt("TOKEN_TTL_HOURS", 168),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		ReconcileMins:   getEnvAsInt("RECONCILE_INTERVAL_MINUTES", 60),
		Debug:           getEnvAsBool("DEBUG", false),
	}

	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("应用程序运行在调试模式")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("应用程序运行在生产模式")
	}

	log.Printf("配置加载完成。Document API 端点：%s，区域：%s", AppConfig.DocAPIEndpoint, AppConfig.DocAPIRegion)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func validateConfig() {
	if AppConfig.DocAPIEndpoint == "" {
		log.Fatal("错误：Document API 端点未设置")
	}
	if AppConfig.JWTSecret == "" {
		log.Fatal("错误：JWT密钥未设置")
	}
	if AppConfig.TokenTTLHours <= 0 {
		log.Fatal("错误：令牌有效期必须为正数")
	}
}
