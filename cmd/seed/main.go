package main

import (
	"github.com/dailyfresh-next/internal/config"
	"github.com/dailyfresh-next/internal/constants"
	"github.com/dailyfresh-next/internal/logger"
	"github.com/dailyfresh-next/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 商品分类
	types := []models.GoodsType{
		{Name: "新鲜水果", Logo: "fruit", Image: "/static/goods_type/fruit.jpg", SortOrder: 1},
		{Name: "海鲜水产", Logo: "seafood", Image: "/static/goods_type/seafood.jpg", SortOrder: 2},
		{Name: "猪牛羊肉", Logo: "meet", Image: "/static/goods_type/meet.jpg", SortOrder: 3},
		{Name: "禽类蛋品", Logo: "egg", Image: "/static/goods_type/egg.jpg", SortOrder: 4},
		{Name: "新鲜蔬菜", Logo: "vegetables", Image: "/static/goods_type/vegetables.jpg", SortOrder: 5},
		{Name: "速冻食品", Logo: "ice", Image: "/static/goods_type/ice.jpg", SortOrder: 6},
	}

	typeIDs := map[string]uint{}
	for _, goodsType := range types {
		var existing models.GoodsType
		if err := models.DB.Where("name = ?", goodsType.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&goodsType).Error; err != nil {
				stdLog.Printf("创建分类失败 %s: %v", goodsType.Name, err)
				continue
			}
			stdLog.Printf("创建分类: %s", goodsType.Name)
			typeIDs[goodsType.Name] = goodsType.ID
		} else {
			stdLog.Printf("分类已存在: %s", existing.Name)
			typeIDs[existing.Name] = existing.ID
		}
	}

	// 商品 SKU
	skus := []models.GoodsSKU{
		{TypeID: typeIDs["新鲜水果"], Name: "草莓 500g", Summary: "新鲜草莓，当日采摘", Unit: "500g", Stock: 100, Sales: 0, Image: "/static/goods/strawberry.jpg", Status: constants.GoodsStatusOnline},
		{TypeID: typeIDs["新鲜水果"], Name: "葡萄 500g", Summary: "无籽红提", Unit: "500g", Stock: 80, Sales: 0, Image: "/static/goods/grape.jpg", Status: constants.GoodsStatusOnline},
		{TypeID: typeIDs["海鲜水产"], Name: "鲈鱼 1条", Summary: "鲜活鲈鱼，约 600g", Unit: "条", Stock: 50, Sales: 0, Image: "/static/goods/perch.jpg", Status: constants.GoodsStatusOnline},
		{TypeID: typeIDs["猪牛羊肉"], Name: "猪肋排 500g", Summary: "冷鲜肋排", Unit: "500g", Stock: 60, Sales: 0, Image: "/static/goods/ribs.jpg", Status: constants.GoodsStatusOnline},
		{TypeID: typeIDs["禽类蛋品"], Name: "土鸡蛋 30枚", Summary: "农家散养土鸡蛋", Unit: "盒", Stock: 200, Sales: 0, Image: "/static/goods/egg.jpg", Status: constants.GoodsStatusOnline},
		{TypeID: typeIDs["新鲜蔬菜"], Name: "西兰花 1个", Summary: "绿色无公害", Unit: "个", Stock: 120, Sales: 0, Image: "/static/goods/broccoli.jpg", Status: constants.GoodsStatusOnline},
		{TypeID: typeIDs["速冻食品"], Name: "手工水饺 500g", Summary: "三鲜馅速冻水饺", Unit: "500g", Stock: 90, Sales: 0, Image: "/static/goods/dumpling.jpg", Status: constants.GoodsStatusOnline},
	}
	prices := []string{"19.90", "15.50", "32.00", "26.80", "36.00", "6.50", "18.00"}

	for i, sku := range skus {
		if sku.TypeID == 0 {
			stdLog.Printf("跳过商品 %s: 分类缺失", sku.Name)
			continue
		}
		price, err := models.NewMoneyFromString(prices[i])
		if err != nil {
			stdLog.Printf("商品 %s 价格非法: %v", sku.Name, err)
			continue
		}
		sku.Price = price

		var existing models.GoodsSKU
		if err := models.DB.Where("name = ?", sku.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&sku).Error; err != nil {
				stdLog.Printf("创建商品失败 %s: %v", sku.Name, err)
			} else {
				stdLog.Printf("创建商品: %s (¥%s)", sku.Name, sku.Price.String())
			}
		} else {
			stdLog.Printf("商品已存在: %s", existing.Name)
		}
	}

	stdLog.Printf("种子数据初始化完成")
}
